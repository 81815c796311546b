package probe

import (
	"context"
	"crypto/md5" //nolint:gosec // Gravatar's lookup scheme is keyed on MD5.
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/anityu45/footprintscan/internal/model"
)

// defaultGravatarBaseURL is the production Gravatar endpoint. Tests
// override it with an httptest server.
const defaultGravatarBaseURL = "https://gravatar.com"

// GravatarProbe checks whether an email address has a public Gravatar
// profile. A positive hit is a strong identity anchor: the same hash is
// reused across every site that embeds Gravatar avatars.
//
// When a profile exists the probe also downloads the avatar image and
// inspects its EXIF metadata. Avatars uploaded from phones occasionally
// carry GPS coordinates, which escalates the signal severity.
type GravatarProbe struct {
	client        *http.Client
	baseURL       string
	userAgent     string
	timeout       time.Duration
	maxAvatarSize int64
}

// NewGravatarProbe creates a GravatarProbe using the given client.
func NewGravatarProbe(client *http.Client, userAgent string, timeout time.Duration, maxAvatarSize int64) *GravatarProbe {
	return &GravatarProbe{
		client:        client,
		baseURL:       defaultGravatarBaseURL,
		userAgent:     userAgent,
		timeout:       timeout,
		maxAvatarSize: maxAvatarSize,
	}
}

// Name returns the probe name.
func (p *GravatarProbe) Name() string { return "gravatar" }

// Input returns the attribute kind this probe consumes.
func (p *GravatarProbe) Input() InputKind { return InputEmail }

// Timeout returns the per-run budget.
func (p *GravatarProbe) Timeout() time.Duration { return p.timeout }

// Run looks up the Gravatar profile for email.
func (p *GravatarProbe) Run(ctx context.Context, email string) ([]model.Signal, error) {
	if p.client == nil {
		return nil, ErrNoHTTPClient
	}

	hash := gravatarHash(email)
	resp, err := doGet(ctx, p.client, p.baseURL+"/"+hash+".json", p.userAgent)
	if err != nil {
		return nil, fmt.Errorf("gravatar profile lookup: %w", err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	switch resp.StatusCode {
	case http.StatusOK:
		// Profile exists, fall through.
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("gravatar profile lookup: %w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	signals := []model.Signal{{
		Source:      "gravatar",
		Present:     true,
		Description: "Gravatar profile found",
		Category:    model.CategoryIdentity,
		URL:         "https://gravatar.com/" + hash,
	}}

	// Avatar metadata is best effort: a fetch or decode failure never
	// invalidates the profile hit.
	if extra := p.inspectAvatar(ctx, hash); extra != nil {
		signals = append(signals, extra...)
	}

	return signals, nil
}

// inspectAvatar downloads the avatar at full size and extracts location
// metadata from it.
func (p *GravatarProbe) inspectAvatar(ctx context.Context, hash string) []model.Signal {
	resp, err := doGet(ctx, p.client, p.baseURL+"/avatar/"+hash+"?s=512&d=404", p.userAgent)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}
	if resp.ContentLength > p.maxAvatarSize {
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, p.maxAvatarSize))
	if err != nil {
		return nil
	}

	return imageLocationSignals(data, "gravatar")
}

// gravatarHash computes the lookup hash: MD5 of the trimmed, lowercased
// address.
func gravatarHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email)))) //nolint:gosec
	return hex.EncodeToString(sum[:])
}
