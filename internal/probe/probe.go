// Package probe confirms that a token is still accepted by GitHub.
//
// The probe hits /rate_limit: it is cheap, side-effect-free, and returns 200
// for any valid token regardless of granted scopes.
package probe

import (
	"context"
	"net/http"
	"time"
)

// DefaultAPIBase is the GitHub REST API host used when no override is set.
const DefaultAPIBase = "https://api.github.com"

// DefaultTimeout bounds a single probe so a hung provider cannot stall the
// calling script.
const DefaultTimeout = 10 * time.Second

// TransportFailure is the status reported when the probe never produced an
// HTTP response (DNS, TLS, timeout).
const TransportFailure = 0

// Prober issues the liveness request.
type Prober struct {
	APIBase    string       // Override for testing or GitHub-compatible hosts; empty uses DefaultAPIBase
	HTTPClient *http.Client // Override for testing
}

// New creates a prober for the given API base. An empty base means the
// default GitHub host.
func New(apiBase string) *Prober {
	return &Prober{APIBase: apiBase}
}

func (p *Prober) apiBase() string {
	if p.APIBase != "" {
		return p.APIBase
	}
	return DefaultAPIBase
}

func (p *Prober) httpClient() *http.Client {
	if p.HTTPClient != nil {
		return p.HTTPClient
	}
	return &http.Client{Timeout: DefaultTimeout}
}

// Probe issues one authenticated GET against the rate-limit endpoint and
// returns the HTTP status, or TransportFailure if no response arrived. Only
// the status is consulted; the body is discarded.
func (p *Prober) Probe(ctx context.Context, accessToken string) int {
	reqCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, "GET", p.apiBase()+"/rate_limit", nil)
	if err != nil {
		return TransportFailure
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("User-Agent", "ghbroker")

	resp, err := p.httpClient().Do(req)
	if err != nil {
		return TransportFailure
	}
	defer resp.Body.Close()

	return resp.StatusCode
}

// IsLive reports whether a probe status means the token is accepted.
func IsLive(status int) bool {
	return status == http.StatusOK || status == http.StatusNotModified
}

// IsRetryable reports whether a probe status is transient: the same token
// may succeed after a backoff delay. Revocation (401/403) and any
// unclassified status are terminal for the source.
func IsRetryable(status int) bool {
	return status == http.StatusTooManyRequests || status == TransportFailure
}
