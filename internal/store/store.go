package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/anityu45/footprintscan/internal/model"
)

// Store provides SQLite-based persistence for scan records.
// It manages connection pooling and serializes writes through SQLite's
// single-writer model, satisfying the per-scan write-serialization
// requirement without explicit locking.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging so concurrent API reads do
	// not block coordinator writes. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a Store at the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an error
// is returned.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, "footprintscan.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; a single pooled connection keeps
	// write serialization in the driver instead of in application locks.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	-- Scan records hold the full request/poll lifecycle of one scan.
	-- Findings are stored as a JSON array to preserve ordering exactly.
	CREATE TABLE IF NOT EXISTS scans (
		scan_id TEXT PRIMARY KEY,
		email TEXT NOT NULL DEFAULT '',
		username TEXT NOT NULL DEFAULT '',
		domain TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		findings TEXT NOT NULL DEFAULT '[]',
		risk_score INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scans_status ON scans(status);
	CREATE INDEX IF NOT EXISTS idx_scans_created ON scans(created_at);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Create inserts a new pending record.
// The record's request must already be normalized; the derived username is
// persisted here and never recomputed later.
func (s *Store) Create(ctx context.Context, rec *model.ScanRecord) error {
	query := `
	INSERT INTO scans (scan_id, email, username, domain, status, findings, risk_score, created_at)
	VALUES (?, ?, ?, ?, ?, '[]', 0, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.Request.Email,
		rec.Request.Username,
		rec.Request.Domain,
		rec.Status.String(),
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateScanID, rec.ID)
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// SetRunning transitions a scan to Running.
// The transition is fenced: it succeeds from any state except Running, so
// an at-least-once redelivery of a completed scan re-runs idempotently,
// while two live invocations can never interleave. Returns ErrScanInFlight
// when another invocation holds the scan, ErrScanNotFound when no record
// exists.
func (s *Store) SetRunning(ctx context.Context, scanID string) error {
	query := `UPDATE scans SET status = ? WHERE scan_id = ? AND status != ?`
	res, err := s.db.ExecContext(ctx, query,
		model.StatusRunning.String(), scanID, model.StatusRunning.String())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if affected == 1 {
		return nil
	}

	// Nothing updated: either the scan is unknown or already claimed.
	if _, err := s.Get(ctx, scanID); err != nil {
		return err
	}
	return fmt.Errorf("%w: %s", ErrScanInFlight, scanID)
}

// Reclaim transitions a scan to Running regardless of its current status.
// It bypasses the fence SetRunning enforces, so it is reserved for retries
// taking over a claim their own failed invocation abandoned mid-write.
// Returns ErrScanNotFound when no record exists.
func (s *Store) Reclaim(ctx context.Context, scanID string) error {
	query := `UPDATE scans SET status = ? WHERE scan_id = ?`
	res, err := s.db.ExecContext(ctx, query, model.StatusRunning.String(), scanID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrScanNotFound, scanID)
	}
	return nil
}

// Complete atomically persists the findings and score and transitions the
// scan to Completed. A reader never observes a half-written findings/score
// pair because both land in one UPDATE.
func (s *Store) Complete(ctx context.Context, scanID string, findings []model.Finding, score int) error {
	if findings == nil {
		findings = make([]model.Finding, 0)
	}
	findingsJSON, err := json.Marshal(findings)
	if err != nil {
		return fmt.Errorf("failed to serialize findings: %w", err)
	}

	query := `UPDATE scans SET status = ?, findings = ?, risk_score = ? WHERE scan_id = ?`
	res, err := s.db.ExecContext(ctx, query,
		model.StatusCompleted.String(), string(findingsJSON), score, scanID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: %s", ErrScanNotFound, scanID)
	}
	return nil
}

// Fail transitions the scan to Failed. Used only for infrastructure
// failures; probe failures never fail a scan.
func (s *Store) Fail(ctx context.Context, scanID string) error {
	query := `UPDATE scans SET status = ? WHERE scan_id = ?`
	res, err := s.db.ExecContext(ctx, query, model.StatusFailed.String(), scanID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: %s", ErrScanNotFound, scanID)
	}
	return nil
}

// Get fetches a scan record by id.
// Returns ErrScanNotFound for unknown ids; the API layer maps that to the
// default "Processing" view rather than an error.
func (s *Store) Get(ctx context.Context, scanID string) (*model.ScanRecord, error) {
	query := `
	SELECT scan_id, email, username, domain, status, findings, risk_score, created_at
	FROM scans WHERE scan_id = ?
	`
	row := s.db.QueryRowContext(ctx, query, scanID)

	var (
		rec          model.ScanRecord
		statusText   string
		findingsJSON string
		createdAt    string
	)
	err := row.Scan(
		&rec.ID,
		&rec.Request.Email,
		&rec.Request.Username,
		&rec.Request.Domain,
		&statusText,
		&findingsJSON,
		&rec.RiskScore,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrScanNotFound, scanID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	rec.Status = model.ParseScanStatus(statusText)
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if err := json.Unmarshal([]byte(findingsJSON), &rec.Findings); err != nil {
		return nil, fmt.Errorf("failed to parse findings: %w", err)
	}
	if rec.Findings == nil {
		rec.Findings = make([]model.Finding, 0)
	}
	return &rec, nil
}

// isConstraintError reports whether err is a primary-key violation.
// modernc.org/sqlite surfaces these as formatted driver errors, so string
// matching is the portable check.
func isConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "constraint")
}
