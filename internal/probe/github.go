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

const defaultGitHubBaseURL = "https://api.github.com"

// GitHubProbe resolves a username against the GitHub users API. GitHub
// profiles are high-linkage: they are long-lived, publicly indexed, and
// often carry the owner's real name and employer.
type GitHubProbe struct {
	client    *http.Client
	baseURL   string
	userAgent string
	timeout   time.Duration
}

// NewGitHubProbe creates a GitHubProbe using the given client.
func NewGitHubProbe(client *http.Client, userAgent string, timeout time.Duration) *GitHubProbe {
	return &GitHubProbe{
		client:    client,
		baseURL:   defaultGitHubBaseURL,
		userAgent: userAgent,
		timeout:   timeout,
	}
}

// Name returns the probe name.
func (p *GitHubProbe) Name() string { return "github" }

// Input returns the attribute kind this probe consumes.
func (p *GitHubProbe) Input() InputKind { return InputUsername }

// Timeout returns the per-run budget.
func (p *GitHubProbe) Timeout() time.Duration { return p.timeout }

// Run looks up username on GitHub.
func (p *GitHubProbe) Run(ctx context.Context, username string) ([]model.Signal, error) {
	if p.client == nil {
		return nil, ErrNoHTTPClient
	}

	target := p.baseURL + "/users/" + url.PathEscape(username)
	resp, err := doGet(ctx, p.client, target, p.userAgent)
	if err != nil {
		return nil, fmt.Errorf("github lookup: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Account exists, fall through.
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("github lookup: %w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("github lookup: %w", err)
	}

	var user struct {
		Login   string `json:"login"`
		HTMLURL string `json:"html_url"`
		Name    string `json:"name"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("github lookup: %w: %v", ErrMalformedResponse, err)
	}

	description := "GitHub account found"
	if user.Name != "" {
		description = "GitHub account found (display name: " + user.Name + ")"
	}
	profileURL := user.HTMLURL
	if profileURL == "" {
		profileURL = "https://github.com/" + url.PathEscape(username)
	}

	return []model.Signal{{
		Source:      "github",
		Present:     true,
		Description: description,
		Category:    model.CategorySocialMedia,
		URL:         profileURL,
	}}, nil
}
