package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/anityu45/footprintscan/internal/model"
)

const defaultBreachBaseURL = "https://api.xposedornot.com"

// BreachProbe queries the XposedOrNot index for data breaches that
// exposed an email address. Each breach becomes its own signal so the
// aggregator can charge a per-breach penalty, and every signal carries
// the severity derived from the total breach count.
type BreachProbe struct {
	client    *http.Client
	baseURL   string
	userAgent string
	timeout   time.Duration
}

// NewBreachProbe creates a BreachProbe using the given client.
func NewBreachProbe(client *http.Client, userAgent string, timeout time.Duration) *BreachProbe {
	return &BreachProbe{
		client:    client,
		baseURL:   defaultBreachBaseURL,
		userAgent: userAgent,
		timeout:   timeout,
	}
}

// Name returns the probe name.
func (p *BreachProbe) Name() string { return "breach" }

// Input returns the attribute kind this probe consumes.
func (p *BreachProbe) Input() InputKind { return InputEmail }

// Timeout returns the per-run budget.
func (p *BreachProbe) Timeout() time.Duration { return p.timeout }

// breachResponse mirrors the check-email payload. The index groups
// breach names into nested arrays, so both levels must be walked.
type breachResponse struct {
	Breaches [][]string `json:"breaches"`
}

// Run checks email against the breach index. A 404 means the address is
// clean and yields zero signals.
func (p *BreachProbe) Run(ctx context.Context, email string) ([]model.Signal, error) {
	if p.client == nil {
		return nil, ErrNoHTTPClient
	}

	target := p.baseURL + "/v1/check-email/" + url.PathEscape(email)
	resp, err := doGet(ctx, p.client, target, p.userAgent)
	if err != nil {
		return nil, fmt.Errorf("breach lookup: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Exposed, fall through.
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("breach lookup: %w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("breach lookup: %w", err)
	}

	var payload breachResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("breach lookup: %w: %v", ErrMalformedResponse, err)
	}

	names := flattenBreachNames(payload.Breaches)
	if len(names) == 0 {
		return nil, nil
	}

	severity := model.SeverityFromBreachCount(len(names))
	signals := make([]model.Signal, 0, len(names))
	for _, name := range names {
		signals = append(signals, model.Signal{
			Source:      name,
			Present:     true,
			Description: "email exposed in the " + name + " data breach",
			Category:    model.CategoryBreach,
			Severity:    severity,
		})
	}
	return signals, nil
}

// flattenBreachNames walks the nested groups and de-duplicates breach
// names while preserving first-seen order.
func flattenBreachNames(groups [][]string) []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, group := range groups {
		for _, name := range group {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
