package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/anityu45/footprintscan/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because it works in all terminals and pipes cleanly to
// files and other tools.
type SimpleWriter struct {
	baseWriter

	// verbose includes the graph payload, which is otherwise hidden
	// from terminal output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the record in human-readable format.
func (w *SimpleWriter) Write(rec *model.ScanRecord) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, rec)
	w.writeFindings(&sb, rec)
	w.writeFooter(&sb, rec)

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, rec *model.ScanRecord) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      FOOTPRINT SCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	if rec.ID != "" {
		sb.WriteString(fmt.Sprintf("Scan ID:    %s\n", rec.ID))
	}
	if rec.Request.Email != "" {
		sb.WriteString(fmt.Sprintf("Email:      %s\n", rec.Request.Email))
	}
	if rec.Request.Username != "" {
		sb.WriteString(fmt.Sprintf("Username:   %s\n", rec.Request.Username))
	}
	if rec.Request.Domain != "" {
		sb.WriteString(fmt.Sprintf("Domain:     %s\n", rec.Request.Domain))
	}
	sb.WriteString(fmt.Sprintf("Status:     %s\n", rec.Status))
	sb.WriteString(fmt.Sprintf("Risk Score: %d / 100\n", rec.RiskScore))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFindings(sb *strings.Builder, rec *model.ScanRecord) {
	count := model.CountDisplayFindings(rec.Findings)
	if count == 0 {
		sb.WriteString("No exposure found.\n")
		return
	}

	sb.WriteString(fmt.Sprintf("Findings (%d):\n", count))
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	for _, f := range rec.Findings {
		if f.IsGraphPayload() && !w.verbose {
			continue
		}
		marker := "*"
		if f.Severity != model.SeverityNone && f.SeverityText != "" {
			marker = "[" + strings.ToUpper(f.SeverityText) + "]"
		}
		sb.WriteString(fmt.Sprintf("  %s %s\n", marker, f.Text))
		if f.URL != "" {
			sb.WriteString(fmt.Sprintf("      %s\n", f.URL))
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder, rec *model.ScanRecord) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	if !rec.CreatedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("Scanned at %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05 MST")))
	}
}
