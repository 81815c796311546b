package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/anityu45/footprintscan/internal/model"
)

const defaultCrtshBaseURL = "https://crt.sh"

// CrtshProbe queries the crt.sh certificate transparency index for
// certificates issued to a domain. Issued certificates confirm the
// domain is operated and expose its subdomain surface.
type CrtshProbe struct {
	client    *http.Client
	baseURL   string
	userAgent string
	timeout   time.Duration
}

// NewCrtshProbe creates a CrtshProbe using the given client.
func NewCrtshProbe(client *http.Client, userAgent string, timeout time.Duration) *CrtshProbe {
	return &CrtshProbe{
		client:    client,
		baseURL:   defaultCrtshBaseURL,
		userAgent: userAgent,
		timeout:   timeout,
	}
}

// Name returns the probe name.
func (p *CrtshProbe) Name() string { return "crtsh" }

// Input returns the attribute kind this probe consumes.
func (p *CrtshProbe) Input() InputKind { return InputDomain }

// Timeout returns the per-run budget.
func (p *CrtshProbe) Timeout() time.Duration { return p.timeout }

// crtshEntry is one row of the crt.sh JSON output. name_value packs the
// certificate's names newline-separated.
type crtshEntry struct {
	NameValue  string `json:"name_value"`
	CommonName string `json:"common_name"`
}

// Run queries the transparency index for domain.
func (p *CrtshProbe) Run(ctx context.Context, domain string) ([]model.Signal, error) {
	if p.client == nil {
		return nil, ErrNoHTTPClient
	}

	target := p.baseURL + "/?q=" + url.QueryEscape(domain) + "&output=json"
	resp, err := doGet(ctx, p.client, target, p.userAgent)
	if err != nil {
		return nil, fmt.Errorf("crt.sh lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("crt.sh lookup: %w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("crt.sh lookup: %w", err)
	}

	var entries []crtshEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("crt.sh lookup: %w: %v", ErrMalformedResponse, err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	roots := registeredDomains(entries)
	description := fmt.Sprintf("%d certificates found in transparency logs", len(entries))
	if len(roots) > 0 {
		description += " (" + strings.Join(roots, ", ") + ")"
	}

	return []model.Signal{{
		Source:      "crt.sh",
		Present:     true,
		Description: description,
		Category:    model.CategoryCertificate,
		URL:         "https://crt.sh/?q=" + url.QueryEscape(domain),
	}}, nil
}

// registeredDomains reduces the certificate names to their sorted set of
// registered domains, so wildcard and subdomain noise collapses to the
// organizations actually holding certificates.
func registeredDomains(entries []crtshEntry) []string {
	seen := make(map[string]bool)
	for _, entry := range entries {
		names := strings.Split(entry.NameValue, "\n")
		names = append(names, entry.CommonName)
		for _, name := range names {
			name = strings.TrimPrefix(strings.TrimSpace(name), "*.")
			if name == "" {
				continue
			}
			root, err := publicsuffix.EffectiveTLDPlusOne(name)
			if err != nil {
				continue
			}
			seen[root] = true
		}
	}

	roots := make([]string, 0, len(seen))
	for root := range seen {
		roots = append(roots, root)
	}
	sort.Strings(roots)
	return roots
}
