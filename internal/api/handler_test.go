package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/anityu45/footprintscan/internal/model"
	"github.com/anityu45/footprintscan/internal/store"
	"github.com/anityu45/footprintscan/internal/worker"
)

// memoryStore implements Store in memory.
type memoryStore struct {
	mu      sync.Mutex
	records map[string]*model.ScanRecord
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[string]*model.ScanRecord)}
}

func (s *memoryStore) Create(ctx context.Context, rec *model.ScanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	return nil
}

func (s *memoryStore) Get(ctx context.Context, scanID string) (*model.ScanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[scanID]
	if !ok {
		return nil, store.ErrScanNotFound
	}
	return rec, nil
}

// captureSubmitter records submissions and optionally refuses them.
type captureSubmitter struct {
	mu  sync.Mutex
	ids []string
	err error
}

func (s *captureSubmitter) Submit(scanID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.ids = append(s.ids, scanID)
	return nil
}

func newTestServer(t *testing.T, st Store, sub Submitter) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := httptest.NewServer(NewRouter(NewHandler(st, sub, logger), logger))
	t.Cleanup(server.Close)
	return server
}

func postScan(t *testing.T, server *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(server.URL+"/api/scan", "application/json", bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("POST /api/scan: %v", err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHandleCreateScan(t *testing.T) {
	t.Parallel()

	t.Run("valid submission is accepted and enqueued", func(t *testing.T) {
		t.Parallel()

		st := newMemoryStore()
		sub := &captureSubmitter{}
		server := newTestServer(t, st, sub)

		resp := postScan(t, server, `{"email": "alice@example.com"}`)
		if resp.StatusCode != http.StatusAccepted {
			t.Fatalf("status = %d, want 202", resp.StatusCode)
		}
		accepted := decode[submissionAccepted](t, resp)

		if accepted.ScanID == "" {
			t.Fatal("scan_id is empty")
		}
		if accepted.Status != "Scan started" {
			t.Errorf("status = %q, want Scan started", accepted.Status)
		}
		if accepted.AutoDetectedUsername != "alice" {
			t.Errorf("auto_detected_username = %q, want alice", accepted.AutoDetectedUsername)
		}

		// The record is persisted with the derived username before the
		// worker ever sees it.
		rec, err := st.Get(context.Background(), accepted.ScanID)
		if err != nil {
			t.Fatalf("record not persisted: %v", err)
		}
		if rec.Request.Username != "alice" {
			t.Errorf("persisted username = %q, want alice", rec.Request.Username)
		}
		if len(sub.ids) != 1 || sub.ids[0] != accepted.ScanID {
			t.Errorf("submitted ids = %v, want [%s]", sub.ids, accepted.ScanID)
		}
	})

	t.Run("explicit username survives email derivation", func(t *testing.T) {
		t.Parallel()

		st := newMemoryStore()
		server := newTestServer(t, st, &captureSubmitter{})

		resp := postScan(t, server, `{"email": "alice@example.com", "username": "wonderland"}`)
		accepted := decode[submissionAccepted](t, resp)
		if accepted.AutoDetectedUsername != "" {
			t.Errorf("auto_detected_username = %q, want empty", accepted.AutoDetectedUsername)
		}

		rec, _ := st.Get(context.Background(), accepted.ScanID)
		if rec.Request.Username != "wonderland" {
			t.Errorf("persisted username = %q, want wonderland", rec.Request.Username)
		}
	})

	t.Run("empty submission is rejected", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t, newMemoryStore(), &captureSubmitter{})
		resp := postScan(t, server, `{}`)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("malformed email is rejected", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t, newMemoryStore(), &captureSubmitter{})
		resp := postScan(t, server, `{"email": "not-an-email"}`)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("full queue sheds load", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t, newMemoryStore(), &captureSubmitter{err: worker.ErrQueueFull})
		resp := postScan(t, server, `{"username": "alice"}`)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", resp.StatusCode)
		}
	})
}

func TestHandleGetScan(t *testing.T) {
	t.Parallel()

	t.Run("unknown id presents as processing", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t, newMemoryStore(), &captureSubmitter{})
		resp, err := http.Get(server.URL + "/api/scan/nonexistent")
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		view := decode[scanView](t, resp)
		if view.Status != "Processing" || view.RiskScore != 0 || len(view.Findings) != 0 {
			t.Errorf("view = %+v, want Processing default", view)
		}
	})

	t.Run("pending scan presents as processing", func(t *testing.T) {
		t.Parallel()

		st := newMemoryStore()
		rec := model.NewScanRecord(model.ScanRequest{Username: "alice"})
		_ = st.Create(context.Background(), rec)
		server := newTestServer(t, st, &captureSubmitter{})

		resp, _ := http.Get(server.URL + "/api/scan/" + rec.ID)
		view := decode[scanView](t, resp)
		if view.Status != "Processing" {
			t.Errorf("status = %q, want Processing", view.Status)
		}
	})

	t.Run("completed scan presents its findings", func(t *testing.T) {
		t.Parallel()

		st := newMemoryStore()
		rec := model.NewScanRecord(model.ScanRequest{Username: "alice"})
		rec.Status = model.StatusCompleted
		rec.RiskScore = 42
		rec.Findings = []model.Finding{{
			Type: model.FindingProfile, Source: "github", Text: "Github: GitHub account found",
		}}
		_ = st.Create(context.Background(), rec)
		server := newTestServer(t, st, &captureSubmitter{})

		resp, _ := http.Get(server.URL + "/api/scan/" + rec.ID)
		view := decode[scanView](t, resp)
		if view.Status != "Completed" {
			t.Errorf("status = %q, want Completed", view.Status)
		}
		if view.RiskScore != 42 {
			t.Errorf("risk_score = %d, want 42", view.RiskScore)
		}
		if len(view.Findings) != 1 || view.Findings[0].Source != "github" {
			t.Errorf("findings = %+v", view.Findings)
		}
	})

	t.Run("findings array is never null", func(t *testing.T) {
		t.Parallel()

		st := newMemoryStore()
		rec := model.NewScanRecord(model.ScanRequest{Username: "alice"})
		rec.Status = model.StatusCompleted
		_ = st.Create(context.Background(), rec)
		server := newTestServer(t, st, &captureSubmitter{})

		resp, err := http.Get(server.URL + "/api/scan/" + rec.ID)
		if err != nil {
			t.Fatalf("GET /api/scan/%s: %v", rec.ID, err)
		}
		defer resp.Body.Close()
		raw, _ := io.ReadAll(resp.Body)
		if strings.Contains(string(raw), `"findings":null`) {
			t.Errorf("response carries null findings: %s", raw)
		}
	})
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, newMemoryStore(), &captureSubmitter{})
	resp, err := http.Get(server.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
