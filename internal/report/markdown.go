package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/anityu45/footprintscan/internal/model"
)

// MarkdownWriter outputs records in Markdown format for documentation
// and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent,
// type-safe markdown generation with table and alert support.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the record as a Markdown document.
func (w *MarkdownWriter) Write(rec *model.ScanRecord) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, rec)
	w.writeFindings(md, rec)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, rec *model.ScanRecord) {
	md.H1("Footprint Scan Report")
	md.PlainText("")

	rows := [][]string{}
	if rec.ID != "" {
		rows = append(rows, []string{"Scan ID", "`" + rec.ID + "`"})
	}
	if rec.Request.Email != "" {
		rows = append(rows, []string{"Email", "`" + rec.Request.Email + "`"})
	}
	if rec.Request.Username != "" {
		rows = append(rows, []string{"Username", "`" + rec.Request.Username + "`"})
	}
	if rec.Request.Domain != "" {
		rows = append(rows, []string{"Domain", "`" + rec.Request.Domain + "`"})
	}
	rows = append(rows,
		[]string{"Status", rec.Status.String()},
		[]string{"Risk Score", strconv.Itoa(rec.RiskScore) + " / 100"},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, rec *model.ScanRecord) {
	count := model.CountDisplayFindings(rec.Findings)
	md.H2("Findings")
	if count == 0 {
		md.PlainText("No exposure found.")
		return
	}

	rows := make([][]string, 0, count)
	for _, f := range rec.Findings {
		if f.IsGraphPayload() {
			continue
		}
		severity := f.SeverityText
		if f.Severity == model.SeverityNone || severity == "" {
			severity = "-"
		}
		rows = append(rows, []string{severity, f.Text, f.URL})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Finding", "URL"},
		Rows:   rows,
	})
}
