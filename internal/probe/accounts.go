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

// accountPlatform describes a single registration-oracle check: an
// endpoint that answers differently for registered and unregistered
// addresses during signup validation.
type accountPlatform struct {
	// name keys the resulting signal source.
	name string

	// endpoint receives the url-escaped address via Sprintf.
	endpoint string

	// description used when the address is registered.
	description string

	// registered classifies a response. It must not retain body.
	registered func(status int, body []byte) bool
}

// defaultAccountPlatforms is the curated oracle set. All three leak
// registration state through their public signup validators.
var defaultAccountPlatforms = []accountPlatform{
	{
		name:        "spotify",
		endpoint:    "https://spclient.wg.spotify.com/signup/public/v1/account?validate=1&email=%s",
		description: "account registered on Spotify",
		registered: func(status int, body []byte) bool {
			if status != http.StatusOK {
				return false
			}
			var payload struct {
				Status int `json:"status"`
			}
			if err := json.Unmarshal(body, &payload); err != nil {
				return false
			}
			// 20 means "address already in use"; 1 means available.
			return payload.Status == 20
		},
	},
	{
		name:        "adobe",
		endpoint:    "https://auth.services.adobe.com/signin/v2/users/accounts?email=%s",
		description: "account registered on Adobe",
		registered: func(status int, body []byte) bool {
			// The account lookup returns a non-empty JSON array for
			// known addresses and [] otherwise.
			if status != http.StatusOK {
				return false
			}
			var accounts []json.RawMessage
			if err := json.Unmarshal(body, &accounts); err != nil {
				return false
			}
			return len(accounts) > 0
		},
	},
	{
		name:        "wordpress",
		endpoint:    "https://public-api.wordpress.com/rest/v1.1/users/email/%s/auth-options",
		description: "account registered on WordPress",
		registered: func(status int, body []byte) bool {
			// Known addresses get their auth options back; unknown
			// ones get a 404 unknown_user error.
			return status == http.StatusOK
		},
	},
}

// AccountsProbe checks a curated list of platforms for accounts
// registered under an email address. Hits are classified as financial
// or creative exposure because the platforms hold payment or portfolio
// data.
type AccountsProbe struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration

	// subTimeout bounds each platform check so one slow oracle cannot
	// consume the whole probe budget.
	subTimeout time.Duration

	platforms []accountPlatform
}

// NewAccountsProbe creates an AccountsProbe over the default platform set.
func NewAccountsProbe(client *http.Client, userAgent string, timeout, subTimeout time.Duration) *AccountsProbe {
	return &AccountsProbe{
		client:     client,
		userAgent:  userAgent,
		timeout:    timeout,
		subTimeout: subTimeout,
		platforms:  defaultAccountPlatforms,
	}
}

// Name returns the probe name.
func (p *AccountsProbe) Name() string { return "accounts" }

// Input returns the attribute kind this probe consumes.
func (p *AccountsProbe) Input() InputKind { return InputEmail }

// Timeout returns the per-run budget.
func (p *AccountsProbe) Timeout() time.Duration { return p.timeout }

// Run checks each platform in table order. Individual oracle failures
// are skipped; the probe reports whatever it could confirm.
func (p *AccountsProbe) Run(ctx context.Context, email string) ([]model.Signal, error) {
	if p.client == nil {
		return nil, ErrNoHTTPClient
	}

	signals := make([]model.Signal, 0, len(p.platforms))
	for _, platform := range p.platforms {
		select {
		case <-ctx.Done():
			return signals, ctx.Err()
		default:
		}

		hit, err := p.checkPlatform(ctx, platform, email)
		if err != nil {
			continue
		}
		if hit {
			signals = append(signals, model.Signal{
				Source:      platform.name,
				Present:     true,
				Description: platform.description,
				Category:    model.CategoryFinancialOrCreative,
			})
		}
	}
	return signals, nil
}

func (p *AccountsProbe) checkPlatform(ctx context.Context, platform accountPlatform, email string) (bool, error) {
	subCtx, cancel := context.WithTimeout(ctx, p.subTimeout)
	defer cancel()

	target := fmt.Sprintf(platform.endpoint, url.QueryEscape(email))
	resp, err := doGet(subCtx, p.client, target, p.userAgent)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return false, err
	}
	return platform.registered(resp.StatusCode, body), nil
}
