package probe

import (
	"net/http"

	"github.com/anityu45/footprintscan/internal/config"
	"github.com/anityu45/footprintscan/internal/model"
)

// Dispatch pairs a probe with the attribute value it should receive.
type Dispatch struct {
	Probe Probe
	Value string
}

// Registry holds the full probe set grouped by input kind and selects
// the subset applicable to a given request.
type Registry struct {
	probes []Probe
}

// NewRegistry builds the default probe set from cfg, sharing a single
// HTTP client across the network probes.
func NewRegistry(cfg *config.Config, client *http.Client) *Registry {
	probes := []Probe{
		NewGravatarProbe(client, cfg.UserAgent, cfg.ProbeTimeout, cfg.MaxAvatarSize),
		NewAccountsProbe(client, cfg.UserAgent, cfg.ProbeTimeout, cfg.SubCheckTimeout),
		NewBreachProbe(client, cfg.UserAgent, cfg.ProbeTimeout),
		NewGitHubProbe(client, cfg.UserAgent, cfg.ProbeTimeout),
		NewSitesProbe(client, cfg.UserAgent, cfg.ProbeTimeout, cfg.SubCheckTimeout),
	}
	// The subprocess probe only makes sense with a binary to drive.
	if cfg.SherlockBinary != "" {
		probes = append(probes, NewSherlockProbe(cfg.SherlockBinary, cfg.DeepProbeTimeout))
	}
	probes = append(probes, NewCrtshProbe(client, cfg.UserAgent, cfg.ProbeTimeout))
	return &Registry{probes: probes}
}

// NewRegistryWith builds a registry over an explicit probe set. Used by
// tests and by callers that need a reduced sweep.
func NewRegistryWith(probes ...Probe) *Registry {
	return &Registry{probes: probes}
}

// For returns the dispatches for every probe whose input attribute is
// present in req. Ordering follows registration order, so the scan
// fan-out is deterministic for a given request shape.
func (r *Registry) For(req model.ScanRequest) []Dispatch {
	dispatches := make([]Dispatch, 0, len(r.probes))
	for _, p := range r.probes {
		var value string
		switch p.Input() {
		case InputEmail:
			value = req.Email
		case InputUsername:
			value = req.Username
		case InputDomain:
			value = req.Domain
		}
		if value == "" {
			continue
		}
		dispatches = append(dispatches, Dispatch{Probe: p, Value: value})
	}
	return dispatches
}
