// Package credential defines the token value type and the stores that
// persist it between invocations.
package credential

import (
	"errors"
	"time"
)

// Source identifies how a token was obtained.
type Source string

const (
	SourceCache Source = "cache" // Rehydrated from a previous resolution
	SourceOAuth Source = "oauth" // Minted via refresh-token exchange
	SourcePAT   Source = "pat"   // Pre-issued personal access token from the environment
)

// EarlyRefreshWindow is the trailing margin before expiry during which a
// token is treated as unusable, absorbing clock skew against the provider.
const EarlyRefreshWindow = 5 * time.Minute

// ErrCacheMiss is returned by a TokenStore when no token is persisted.
var ErrCacheMiss = errors.New("no cached token")

// Token is a usable credential. It is an immutable value: stores and the
// broker copy it, never mutate it.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at,omitzero"`
	Source      Source    `json:"source"`
	Scopes      string    `json:"scopes,omitempty"`
}

// ExpiringWithin reports whether the token expires inside the given window.
// Tokens without a recorded expiry never report as expiring.
func (t Token) ExpiringWithin(window time.Duration) bool {
	if t.ExpiresAt.IsZero() {
		return false
	}
	return time.Until(t.ExpiresAt) <= window
}

// Usable reports whether the token may be submitted for a liveness probe:
// it has a value and is outside the early-refresh window.
func (t Token) Usable() bool {
	return t.AccessToken != "" && !t.ExpiringWithin(EarlyRefreshWindow)
}

// TokenStore persists the most recently resolved token across process
// invocations. Implementations must never expose a partially written token.
type TokenStore interface {
	Load() (Token, error)
	Store(Token) error
	Clear() error
}

// Mask returns a loggable form of a secret: a short prefix and an ellipsis.
func Mask(secret string) string {
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:8] + "..."
}
