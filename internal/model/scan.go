package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ScanStatus represents the lifecycle state of a scan.
type ScanStatus int

const (
	// StatusPending means the scan is created but not yet picked up by
	// a coordinator.
	StatusPending ScanStatus = iota

	// StatusRunning means a coordinator invocation is in flight for
	// this scan. At most one invocation may be running per scan id.
	StatusRunning

	// StatusCompleted is a terminal state: findings and score are final.
	StatusCompleted

	// StatusFailed is a terminal state reached only on infrastructure
	// failure; probe failures never fail a scan.
	StatusFailed
)

// String returns the status in its persisted/user-facing form.
func (s ScanStatus) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusRunning:
		return "Running"
	case StatusCompleted:
		return "Completed"
	case StatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether the status is Completed or Failed.
func (s ScanStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// MarshalJSON serializes the status as its user-facing string so that
// API responses and stored records read "Pending"/"Running"/... rather
// than bare integers.
func (s ScanStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON parses the user-facing status string.
func (s *ScanStatus) UnmarshalJSON(data []byte) error {
	*s = ParseScanStatus(strings.Trim(string(data), `"`))
	return nil
}

// ParseScanStatus converts a persisted status string back to a ScanStatus.
// Unknown strings map to StatusPending, the safest interpretation for a
// record a coordinator may still pick up.
func ParseScanStatus(s string) ScanStatus {
	switch s {
	case "Running":
		return StatusRunning
	case "Completed":
		return StatusCompleted
	case "Failed":
		return StatusFailed
	default:
		return StatusPending
	}
}

// ScanRequest is the immutable identity descriptor a scan starts from.
// At least one field must be non-empty.
//
// If Email is set and Username is not, the username is derived once from
// the email local part before the record is persisted (see Normalize).
// The coordinator never re-derives it.
type ScanRequest struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Domain   string `json:"domain,omitempty"`
}

// IsEmpty reports whether no identity attribute is set.
func (r ScanRequest) IsEmpty() bool {
	return r.Email == "" && r.Username == "" && r.Domain == ""
}

// Normalize derives the username from the email local part when the
// request carries an email but no username. It returns the derived
// username, or the empty string when nothing was derived.
//
// Derivation happens exactly once, at submission time, so the persisted
// record never disagrees with what the probes saw.
func (r *ScanRequest) Normalize() string {
	if r.Email == "" || r.Username != "" {
		return ""
	}
	local, _, ok := strings.Cut(r.Email, "@")
	if !ok || local == "" {
		return ""
	}
	r.Username = local
	return local
}

// ScanRecord is the persisted unit of scan state.
// It is owned exclusively by the scan state store; the coordinator holds
// only the scan identifier and re-fetches before any read.
type ScanRecord struct {
	// ID is the opaque unique scan identifier.
	ID string `json:"scan_id"`

	// Request is the normalized request the scan was created from.
	Request ScanRequest `json:"request"`

	// Status is the current lifecycle state.
	Status ScanStatus `json:"status"`

	// Findings is the ordered finding list; empty until Completed.
	Findings []Finding `json:"findings"`

	// RiskScore is the bounded risk score in [0,100]; 0 until Completed.
	RiskScore int `json:"risk_score"`

	// CreatedAt is the submission timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// NewScanRecord creates a pending record for the given request.
// The request should already be normalized (see ScanRequest.Normalize).
func NewScanRecord(req ScanRequest) *ScanRecord {
	return &ScanRecord{
		ID:        uuid.New().String(),
		Request:   req,
		Status:    StatusPending,
		Findings:  make([]Finding, 0),
		CreatedAt: time.Now().UTC(),
	}
}
