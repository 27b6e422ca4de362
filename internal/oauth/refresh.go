// Package oauth exchanges a long-lived refresh token for a fresh access
// token at the GitHub token endpoint.
package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/majorcontext/ghbroker/internal/credential"
)

// DefaultTokenURL is GitHub's OAuth token endpoint.
const DefaultTokenURL = "https://github.com/login/oauth/access_token"

// DefaultTimeout bounds a single refresh exchange.
const DefaultTimeout = 10 * time.Second

// maxResponseBytes limits token endpoint responses to prevent unbounded
// reads from a misconfigured server.
const maxResponseBytes = 1 << 20 // 1 MB

// MalformedResponseError indicates the exchange succeeded at the transport
// level but the response carried no access token. This is a configuration
// defect, not a transient failure, so the broker does not retry it.
type MalformedResponseError struct {
	Status int
	Detail string
}

func (e *MalformedResponseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("malformed token response (status %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("malformed token response (status %d)", e.Status)
}

// Refresher performs the refresh-token grant.
type Refresher struct {
	ClientID     string
	ClientSecret string
	RefreshToken string

	TokenURL   string       // Override for testing; empty uses DefaultTokenURL
	HTTPClient *http.Client // Override for testing
}

// Configured reports whether all three exchange inputs are present.
func (r *Refresher) Configured() bool {
	return r.ClientID != "" && r.ClientSecret != "" && r.RefreshToken != ""
}

func (r *Refresher) tokenURL() string {
	if r.TokenURL != "" {
		return r.TokenURL
	}
	return DefaultTokenURL
}

func (r *Refresher) httpClient() *http.Client {
	if r.HTTPClient != nil {
		return r.HTTPClient
	}
	return &http.Client{Timeout: DefaultTimeout}
}

// Refresh performs one POST with the refresh grant and returns the minted
// token. ExpiresAt is set only when the provider supplied a positive
// expires_in.
func (r *Refresher) Refresh(ctx context.Context) (credential.Token, error) {
	body, err := json.Marshal(map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": r.RefreshToken,
		"client_id":     r.ClientID,
		"client_secret": r.ClientSecret,
	})
	if err != nil {
		return credential.Token{}, fmt.Errorf("marshaling refresh request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, "POST", r.tokenURL(), bytes.NewReader(body))
	if err != nil {
		return credential.Token{}, fmt.Errorf("creating refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient().Do(req)
	if err != nil {
		return credential.Token{}, fmt.Errorf("making refresh request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return credential.Token{}, fmt.Errorf("reading refresh response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		_ = json.Unmarshal(respBody, &errResp)
		if errResp.Error != "" {
			return credential.Token{}, fmt.Errorf("refresh failed with status %d: %s", resp.StatusCode, errResp.Error)
		}
		return credential.Token{}, fmt.Errorf("refresh failed with status %d", resp.StatusCode)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
		Scope       string `json:"scope"`
		Scopes      string `json:"scopes"`
	}
	if err := json.Unmarshal(respBody, &tokenResp); err != nil {
		return credential.Token{}, &MalformedResponseError{Status: resp.StatusCode, Detail: "invalid JSON"}
	}
	if tokenResp.AccessToken == "" {
		return credential.Token{}, &MalformedResponseError{Status: resp.StatusCode, Detail: "missing access_token"}
	}

	tokenType := tokenResp.TokenType
	if tokenType == "" {
		tokenType = "bearer"
	}
	scopes := tokenResp.Scope
	if scopes == "" {
		scopes = tokenResp.Scopes
	}

	tok := credential.Token{
		AccessToken: tokenResp.AccessToken,
		TokenType:   strings.ToLower(tokenType),
		Source:      credential.SourceOAuth,
		Scopes:      scopes,
	}
	if tokenResp.ExpiresIn > 0 {
		tok.ExpiresAt = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	}
	return tok, nil
}
