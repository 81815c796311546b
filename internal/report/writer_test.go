package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/anityu45/footprintscan/internal/model"
)

func testRecord() *model.ScanRecord {
	return &model.ScanRecord{
		ID:        "11111111-2222-3333-4444-555555555555",
		Request:   model.ScanRequest{Email: "alice@example.com", Username: "alice"},
		Status:    model.StatusCompleted,
		RiskScore: 35,
		Findings: []model.Finding{
			{
				Type: model.FindingBreach, Source: "LinkedIn",
				Text:     "LinkedIn: email exposed in the LinkedIn data breach",
				Severity: model.SeverityLow, SeverityText: "Low",
			},
			{
				Type: model.FindingProfile, Source: "github",
				Text: "Github: GitHub account found", URL: "https://github.com/alice",
			},
			{
				Type: model.FindingGraph,
				Text: model.GraphDataToken + `[["social_media","github"]]`,
			},
		},
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewSimpleWriter(&buf)
	if _, err := w.Write(testRecord()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"FOOTPRINT SCAN REPORT",
		"alice@example.com",
		"Risk Score: 35 / 100",
		"Findings (2):",
		"[LOW]",
		"https://github.com/alice",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	// The graph payload stays out of terminal output.
	if strings.Contains(out, model.GraphDataToken) {
		t.Error("graph payload leaked into terminal output")
	}
}

func TestSimpleWriterVerboseShowsGraph(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewSimpleWriter(&buf, WithVerbose(true))
	if _, err := w.Write(testRecord()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), model.GraphDataToken) {
		t.Error("verbose output should include the graph payload")
	}
}

func TestSimpleWriterEmptyRecord(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rec := &model.ScanRecord{Status: model.StatusCompleted}
	if _, err := NewSimpleWriter(&buf).Write(rec); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No exposure found.") {
		t.Error("empty record should report no exposure")
	}
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewJSONWriter(&buf, WithPrettyPrint())
	n, err := w.Write(testRecord())
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != buf.Len() {
		t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
	}

	var decoded model.ScanRecord
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.RiskScore != 35 || decoded.Status != model.StatusCompleted {
		t.Errorf("round trip lost data: %+v", decoded)
	}
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(testRecord()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Footprint Scan Report",
		"## Findings",
		"Risk Score",
		"35 / 100",
		"GitHub account found",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, model.GraphDataToken) {
		t.Error("graph payload leaked into markdown output")
	}
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, raw bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&raw))
	if _, err := mw.Write(testRecord()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if text.Len() == 0 || raw.Len() == 0 {
		t.Error("both destinations should receive output")
	}
}
