package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"

	"github.com/go-chi/chi/v5"

	"github.com/anityu45/footprintscan/internal/model"
	"github.com/anityu45/footprintscan/internal/store"
	"github.com/anityu45/footprintscan/internal/worker"
)

// Store is the record surface the handlers need.
type Store interface {
	Create(ctx context.Context, rec *model.ScanRecord) error
	Get(ctx context.Context, scanID string) (*model.ScanRecord, error)
}

// Submitter enqueues scans for asynchronous execution.
type Submitter interface {
	Submit(scanID string) error
}

// Handler serves the scan endpoints.
type Handler struct {
	store     Store
	submitter Submitter
	logger    *slog.Logger
}

// NewHandler creates a Handler over the given store and submitter.
func NewHandler(st Store, submitter Submitter, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: st, submitter: submitter, logger: logger}
}

// scanSubmission is the POST /api/scan request body.
type scanSubmission struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Domain   string `json:"domain"`
}

// submissionAccepted is the 202 response body.
type submissionAccepted struct {
	ScanID               string `json:"scan_id"`
	Status               string `json:"status"`
	AutoDetectedUsername string `json:"auto_detected_username,omitempty"`
}

// scanView is the poll response body. Unknown and non-terminal scans
// share the same Processing shape so pollers need only one code path.
type scanView struct {
	ScanID    string          `json:"scan_id,omitempty"`
	Status    string          `json:"status"`
	RiskScore int             `json:"risk_score"`
	Findings  []model.Finding `json:"findings"`
}

// errorReply is the body for every 4xx/5xx response.
type errorReply struct {
	Error string `json:"error"`
}

// HandleCreateScan accepts a scan submission, persists the record and
// hands it to the execution layer.
func (h *Handler) HandleCreateScan(w http.ResponseWriter, r *http.Request) {
	var body scanSubmission
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req := model.ScanRequest{
		Email:    body.Email,
		Username: body.Username,
		Domain:   body.Domain,
	}
	if req.IsEmpty() {
		h.writeError(w, http.StatusBadRequest, "at least one of email, username or domain is required")
		return
	}
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid email address")
			return
		}
	}

	// Username derivation happens exactly once, here, so the persisted
	// record and every later execution observe the same value.
	derived := req.Normalize()

	rec := model.NewScanRecord(req)
	if err := h.store.Create(r.Context(), rec); err != nil {
		h.logger.Error("create scan record", "error", err)
		h.writeError(w, http.StatusInternalServerError, "could not create scan")
		return
	}

	if err := h.submitter.Submit(rec.ID); err != nil {
		if errors.Is(err, worker.ErrQueueFull) {
			h.writeError(w, http.StatusServiceUnavailable, "scan queue is full, retry later")
			return
		}
		h.logger.Error("submit scan", "scan_id", rec.ID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "could not start scan")
		return
	}

	h.writeJSON(w, http.StatusAccepted, submissionAccepted{
		ScanID:               rec.ID,
		Status:               "Scan started",
		AutoDetectedUsername: derived,
	})
}

// HandleGetScan returns the current state of a scan. Unknown ids and
// scans that have not finished both present as Processing; the id is
// opaque to the client either way.
func (h *Handler) HandleGetScan(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")

	rec, err := h.store.Get(r.Context(), scanID)
	if err != nil {
		if errors.Is(err, store.ErrScanNotFound) {
			h.writeJSON(w, http.StatusOK, processingView(scanID))
			return
		}
		h.logger.Error("load scan record", "scan_id", scanID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "could not load scan")
		return
	}

	if !rec.Status.IsTerminal() {
		h.writeJSON(w, http.StatusOK, processingView(scanID))
		return
	}

	findings := rec.Findings
	if findings == nil {
		findings = []model.Finding{}
	}
	h.writeJSON(w, http.StatusOK, scanView{
		ScanID:    rec.ID,
		Status:    rec.Status.String(),
		RiskScore: rec.RiskScore,
		Findings:  findings,
	})
}

// HandleHealth is the liveness endpoint.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func processingView(scanID string) scanView {
	return scanView{
		ScanID:    scanID,
		Status:    "Processing",
		RiskScore: 0,
		Findings:  []model.Finding{},
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, errorReply{Error: message})
}
