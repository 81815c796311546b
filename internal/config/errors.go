package config

import "errors"

// Configuration validation errors.
//
// Design decision: We define specific sentinel errors rather than formatting
// ad hoc strings so callers (and tests) can match on the failure mode.
var (
	// ErrInvalidProbeTimeout is returned when the per-probe timeout is
	// zero or negative. A zero timeout would fail every probe immediately.
	ErrInvalidProbeTimeout = errors.New("probe timeout must be positive")

	// ErrInvalidDeepProbeTimeout is returned when the deep-enumeration
	// budget is smaller than the regular probe timeout.
	ErrInvalidDeepProbeTimeout = errors.New("deep probe timeout must be at least the probe timeout")

	// ErrInvalidWorkerCount is returned when the worker pool size is not
	// positive. Zero workers would leave submitted scans pending forever.
	ErrInvalidWorkerCount = errors.New("worker count must be positive")

	// ErrInvalidQueueSize is returned when the submission queue capacity
	// is not positive.
	ErrInvalidQueueSize = errors.New("queue size must be positive")

	// ErrConflictingReportFormats is returned when both JSON and Markdown
	// report output are requested. They are mutually exclusive.
	ErrConflictingReportFormats = errors.New("json and markdown report formats are mutually exclusive")

	// ErrNoListenAddr is returned when the API server address is empty.
	ErrNoListenAddr = errors.New("listen address must not be empty")
)
