package store

import "errors"

// Store errors.
//
// Design decision: We define specific error types rather than wrapping all
// errors generically. The worker retries on ErrStoreUnavailable but must
// never retry ErrScanNotFound, so the two failure modes have to be
// distinguishable with errors.Is.
var (
	// ErrScanNotFound is returned when no record exists for a scan id.
	// For a coordinator invocation this is fatal and never retried: it
	// indicates a submission-ordering bug upstream. The API layer maps it
	// to the default "Processing" view instead of an error.
	ErrScanNotFound = errors.New("scan not found")

	// ErrScanInFlight is returned when a Running transition is refused
	// because another coordinator invocation already claimed the scan.
	ErrScanInFlight = errors.New("scan already running")

	// ErrStoreUnavailable wraps infrastructure failures (database
	// unreachable, I/O error). Surfaced to the task execution layer,
	// which applies its retry policy.
	ErrStoreUnavailable = errors.New("scan store unavailable")

	// ErrDuplicateScanID is returned when Create is called with an id
	// that already exists.
	ErrDuplicateScanID = errors.New("scan id already exists")
)
