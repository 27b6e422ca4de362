// Package header formats a resolved token as an HTTP Authorization header.
package header

import (
	"encoding/base64"

	"github.com/majorcontext/ghbroker/internal/askpass"
	"github.com/majorcontext/ghbroker/internal/credential"
)

// Bearer returns the Authorization value for REST API calls.
func Bearer(tok credential.Token) string {
	return "Bearer " + tok.AccessToken
}

// Basic returns the Authorization value for the git-over-HTTPS transport
// flavor: the askpass identity and the token, base64-encoded.
func Basic(tok credential.Token) string {
	pair := askpass.Username + ":" + tok.AccessToken
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(pair))
}

// Authorization returns the full header line for the requested flavor.
func Authorization(tok credential.Token, basic bool) string {
	if basic {
		return "Authorization: " + Basic(tok)
	}
	return "Authorization: " + Bearer(tok)
}
