package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/anityu45/footprintscan/internal/model"
)

// siteEntry describes one status-code enumeration target. A site is
// listed only if a plain GET of its profile URL distinguishes existing
// accounts (200) from free usernames (404 or an error page).
type siteEntry struct {
	// name keys the resulting signal source.
	name string

	// profileURL receives the url-escaped username via Sprintf. The
	// same URL is reported back on a hit.
	profileURL string
}

// defaultSiteTable is the built-in enumeration table. Ordering is the
// reporting order, so entries stay alphabetical.
var defaultSiteTable = []siteEntry{
	{name: "about.me", profileURL: "https://about.me/%s"},
	{name: "behance", profileURL: "https://www.behance.net/%s"},
	{name: "dev.to", profileURL: "https://dev.to/%s"},
	{name: "gitlab", profileURL: "https://gitlab.com/%s"},
	{name: "keybase", profileURL: "https://keybase.io/%s"},
	{name: "medium", profileURL: "https://medium.com/@%s"},
	{name: "pastebin", profileURL: "https://pastebin.com/u/%s"},
	{name: "pinterest", profileURL: "https://www.pinterest.com/%s/"},
	{name: "reddit", profileURL: "https://www.reddit.com/user/%s"},
	{name: "soundcloud", profileURL: "https://soundcloud.com/%s"},
	{name: "telegram", profileURL: "https://t.me/%s"},
	{name: "tiktok", profileURL: "https://www.tiktok.com/@%s"},
	{name: "twitch", profileURL: "https://www.twitch.tv/%s"},
	{name: "vimeo", profileURL: "https://vimeo.com/%s"},
}

// siteCheckParallelism bounds the concurrent sub-checks so the probe
// does not open a connection per table entry at once.
const siteCheckParallelism = 8

// SitesProbe enumerates a username across a built-in table of public
// platforms by probing each profile URL and classifying the status code.
//
// Design decision: sub-checks fan out concurrently and the hits are
// assembled back in table order, so reporting stays deterministic while
// the probe's wall clock is bounded by the slowest site rather than the
// sum of the table. Each sub-check keeps its own deadline so a single
// slow site cannot consume the probe budget.
type SitesProbe struct {
	client     *http.Client
	userAgent  string
	timeout    time.Duration
	subTimeout time.Duration
	sites      []siteEntry
}

// NewSitesProbe creates a SitesProbe over the built-in site table.
func NewSitesProbe(client *http.Client, userAgent string, timeout, subTimeout time.Duration) *SitesProbe {
	return &SitesProbe{
		client:     client,
		userAgent:  userAgent,
		timeout:    timeout,
		subTimeout: subTimeout,
		sites:      defaultSiteTable,
	}
}

// Name returns the probe name.
func (p *SitesProbe) Name() string { return "sites" }

// Input returns the attribute kind this probe consumes.
func (p *SitesProbe) Input() InputKind { return InputUsername }

// Timeout returns the per-run budget.
func (p *SitesProbe) Timeout() time.Duration { return p.timeout }

// Run enumerates username across the site table. Sites that fail to
// answer are skipped; the probe reports whatever it could confirm.
func (p *SitesProbe) Run(ctx context.Context, username string) ([]model.Signal, error) {
	if p.client == nil {
		return nil, ErrNoHTTPClient
	}

	hits := make([]bool, len(p.sites))
	targets := make([]string, len(p.sites))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(siteCheckParallelism)
	for i, site := range p.sites {
		targets[i] = fmt.Sprintf(site.profileURL, url.PathEscape(username))
		g.Go(func() error {
			// Unreachable sites are skipped; each goroutine owns its
			// own slot, so no locking is needed.
			hit, err := p.checkSite(gctx, targets[i])
			hits[i] = err == nil && hit
			return nil
		})
	}
	_ = g.Wait()

	signals := make([]model.Signal, 0)
	for i, site := range p.sites {
		if !hits[i] {
			continue
		}
		signals = append(signals, model.Signal{
			Source:      site.name,
			Present:     true,
			Description: "profile found on " + site.name,
			Category:    model.CategorySocialMedia,
			URL:         targets[i],
		})
	}
	if err := ctx.Err(); err != nil {
		return signals, err
	}
	return signals, nil
}

func (p *SitesProbe) checkSite(ctx context.Context, target string) (bool, error) {
	subCtx, cancel := context.WithTimeout(ctx, p.subTimeout)
	defer cancel()

	resp, err := doGet(subCtx, p.client, target, p.userAgent)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	return resp.StatusCode == http.StatusOK, nil
}
