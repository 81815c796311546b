package probe

import (
	"context"
	"net/http"
	"time"

	"github.com/anityu45/footprintscan/internal/model"
)

// InputKind identifies which identity attribute a probe consumes.
type InputKind int

const (
	// InputEmail probes consume the request's email address.
	InputEmail InputKind = iota

	// InputUsername probes consume the (possibly derived) username.
	InputUsername

	// InputDomain probes consume the domain.
	InputDomain
)

// String returns the attribute name for logging.
func (k InputKind) String() string {
	switch k {
	case InputEmail:
		return "email"
	case InputUsername:
		return "username"
	case InputDomain:
		return "domain"
	default:
		return "unknown"
	}
}

// Probe is a single lookup against one external signal source.
//
// Run must return within the context deadline the coordinator derives from
// Timeout(); a probe that overruns is treated as failed. "Not found" is a
// successful run with zero signals.
type Probe interface {
	// Name returns the probe's identifier for logging and reporting.
	Name() string

	// Input returns which identity attribute the probe consumes.
	Input() InputKind

	// Timeout returns the probe's execution budget. Deep-enumeration
	// probes return an extended budget; the coordinator applies it
	// per-probe, never per-scan.
	Timeout() time.Duration

	// Run executes the lookup for one identity value.
	// Implementations must respect context cancellation.
	Run(ctx context.Context, value string) ([]model.Signal, error)
}

// doGet issues a GET with the probe user agent and returns the response.
// The caller owns closing the body.
func doGet(ctx context.Context, client *http.Client, url, userAgent string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	return client.Do(req)
}
