package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anityu45/footprintscan/internal/model"
)

func TestScanCmdRequiresTarget(t *testing.T) {
	t.Parallel()

	cmd := NewScanCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("Execute() error = nil, want missing-target error")
	}
	if !strings.Contains(err.Error(), "--email") {
		t.Errorf("error %q does not name the flags", err)
	}
}

func TestScanCmdRejectsConflictingFormats(t *testing.T) {
	t.Parallel()

	cmd := NewScanCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--username", "alice", "--json", "--markdown"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("Execute() error = nil, want conflicting formats error")
	}
}

func TestScanCmdImageOnly(t *testing.T) {
	t.Parallel()

	// A file without an EXIF block produces a clean record without any
	// network or database access.
	imagePath := filepath.Join(t.TempDir(), "plain.jpg")
	if err := os.WriteFile(imagePath, []byte("no metadata here"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := NewScanCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--image", imagePath, "--json"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var rec model.ScanRecord
	if err := json.Unmarshal(out.Bytes(), &rec); err != nil {
		t.Fatalf("output is not a JSON record: %v", err)
	}
	if rec.Status != model.StatusCompleted {
		t.Errorf("status = %v, want Completed", rec.Status)
	}
	if rec.RiskScore != 0 {
		t.Errorf("risk score = %d, want 0 for a clean image", rec.RiskScore)
	}
}

func TestScanCmdWritesOutputFile(t *testing.T) {
	t.Parallel()

	imagePath := filepath.Join(t.TempDir(), "plain.jpg")
	if err := os.WriteFile(imagePath, []byte("no metadata here"), 0o644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(t.TempDir(), "nested", "report.md")

	cmd := NewScanCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--image", imagePath, "--markdown", "--output", outPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("report file not written: %v", err)
	}
	if !strings.Contains(string(data), "# Footprint Scan Report") {
		t.Errorf("report file content unexpected:\n%s", data)
	}
}

func TestMergeFindings(t *testing.T) {
	t.Parallel()

	base := []model.Finding{
		{Type: model.FindingProfile, Text: "a"},
		{Type: model.FindingGraph, Text: model.GraphDataToken + "[]"},
	}
	extra := []model.Finding{
		{Type: model.FindingIdentity, Text: "b"},
		{Type: model.FindingGraph, Text: model.GraphDataToken + "[]"},
	}

	merged := mergeFindings(base, extra)
	if len(merged) != 3 {
		t.Fatalf("got %d findings, want 3", len(merged))
	}
	if !merged[len(merged)-1].IsGraphPayload() {
		t.Error("graph payload is not last")
	}
	graphs := 0
	for _, f := range merged {
		if f.IsGraphPayload() {
			graphs++
		}
	}
	if graphs != 1 {
		t.Errorf("got %d graph payloads, want 1", graphs)
	}
}
