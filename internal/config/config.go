package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/anityu45/footprintscan/internal/aggregate"
)

// Default configuration values.
// Probe budgets follow the behavior contract: cheap HTTP lookups get a few
// seconds, deep enumeration gets an extended budget that never blocks the
// cheaper probes (timeouts are per-probe, not per-scan).
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "footprintscan"

	// DefaultProbeTimeout bounds one regular probe invocation. Breach and
	// certificate indexes occasionally take several seconds to answer, so
	// this is generous for a single HTTP round trip.
	DefaultProbeTimeout = 10 * time.Second

	// DefaultSubCheckTimeout bounds one sub-check inside a multi-site
	// probe. Each platform lookup gets this budget independently so one
	// slow site cannot stall the whole probe category.
	DefaultSubCheckTimeout = 5 * time.Second

	// DefaultDeepProbeTimeout bounds a deep-enumeration probe (the
	// subprocess-based site sweep). These probes dominate total scan
	// latency and should be budgeted deliberately by the operator.
	DefaultDeepProbeTimeout = 300 * time.Second

	// DefaultWorkerCount is the number of concurrent coordinator
	// invocations. Distinct scans share no mutable state except the
	// store, so this bounds resource usage rather than correctness.
	DefaultWorkerCount = 4

	// DefaultQueueSize is the submission queue capacity. Submissions
	// beyond capacity are rejected rather than blocking the API handler.
	DefaultQueueSize = 64

	// DefaultListenAddr is the API server bind address.
	DefaultListenAddr = ":8080"

	// DefaultSherlockBinary is the external enumeration tool invoked by
	// the deep username probe, resolved via PATH when not absolute.
	DefaultSherlockBinary = "sherlock"

	// DefaultUserAgent identifies footprintscan in outbound HTTP requests.
	DefaultUserAgent = "footprintscan/1.0 (+https://github.com/anityu45/footprintscan)"

	// DefaultMaxRetries bounds requeue attempts after a store-unavailable
	// failure. Scan-not-found failures are never retried.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the base delay between requeue attempts.
	DefaultRetryDelay = 2 * time.Second

	// DefaultMaxAvatarSize limits avatar downloads for metadata
	// extraction. Avatars are small; 5MB leaves wide headroom while
	// preventing memory exhaustion from a misbehaving endpoint.
	DefaultMaxAvatarSize = 5 * 1024 * 1024
)

// Config holds all configuration for footprintscan.
// This struct is populated from CLI flags plus an optional YAML file and
// passed through the application via dependency injection rather than
// global state.
type Config struct {
	// ProbeTimeout bounds each regular probe invocation.
	ProbeTimeout time.Duration

	// SubCheckTimeout bounds each sub-check inside a multi-site probe.
	SubCheckTimeout time.Duration

	// DeepProbeTimeout bounds deep-enumeration probes.
	DeepProbeTimeout time.Duration

	// WorkerCount is the coordinator worker pool size.
	WorkerCount int

	// QueueSize is the submission queue capacity.
	QueueSize int

	// ListenAddr is the API server bind address ("host:port" or ":port").
	ListenAddr string

	// DBDir is the directory for the SQLite scan state store.
	// Defaults to the XDG data directory.
	DBDir string

	// SherlockBinary is the path or name of the external enumeration tool.
	// When empty the deep username probe is not registered.
	SherlockBinary string

	// UserAgent is sent with all outbound probe HTTP requests.
	UserAgent string

	// MaxRetries bounds worker requeue attempts for retryable failures.
	MaxRetries int

	// RetryDelay is the base delay between requeue attempts.
	RetryDelay time.Duration

	// MaxAvatarSize limits avatar image downloads in bytes.
	MaxAvatarSize int64

	// Verbose enables slog.LevelDebug output; otherwise LevelInfo.
	Verbose bool

	// JSONReport selects JSON output for the one-shot CLI scan.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output for the one-shot CLI scan.
	MarkdownReport bool

	// ReportFile is the output file for the one-shot CLI report.
	// When empty the report goes to stdout.
	ReportFile string

	// Policy is the scoring policy table applied by the aggregator.
	Policy aggregate.Policy
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults; callers override specific
// values from flags or the config file after creation.
func NewConfig() *Config {
	return &Config{
		ProbeTimeout:     DefaultProbeTimeout,
		SubCheckTimeout:  DefaultSubCheckTimeout,
		DeepProbeTimeout: DefaultDeepProbeTimeout,
		WorkerCount:      DefaultWorkerCount,
		QueueSize:        DefaultQueueSize,
		ListenAddr:       DefaultListenAddr,
		DBDir:            XDGDataDir(),
		SherlockBinary:   DefaultSherlockBinary,
		UserAgent:        DefaultUserAgent,
		MaxRetries:       DefaultMaxRetries,
		RetryDelay:       DefaultRetryDelay,
		MaxAvatarSize:    DefaultMaxAvatarSize,
		Policy:           aggregate.DefaultPolicy(),
	}
}

// XDGDataDir returns the XDG data directory for footprintscan.
// On Linux: ~/.local/share/footprintscan.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for footprintscan.
// On Linux: ~/.config/footprintscan.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It is called once after flag parsing, before anything starts, so the
// process fails fast with a clear message. The first error found is
// returned; fixing one error often makes the rest irrelevant.
func (c *Config) Validate() error {
	if c.ProbeTimeout <= 0 || c.SubCheckTimeout <= 0 {
		return ErrInvalidProbeTimeout
	}
	if c.DeepProbeTimeout < c.ProbeTimeout {
		return ErrInvalidDeepProbeTimeout
	}
	if c.WorkerCount <= 0 {
		return ErrInvalidWorkerCount
	}
	if c.QueueSize <= 0 {
		return ErrInvalidQueueSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.ListenAddr == "" {
		return ErrNoListenAddr
	}
	return nil
}
