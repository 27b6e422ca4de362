// Package askpass answers git credential prompts non-interactively.
//
// Git invokes the helper named by GIT_ASKPASS with the prompt text as its
// sole argument and reads one line from stdout. Username prompts get the
// fixed identity GitHub expects for token auth; password prompts get the
// resolved access token.
package askpass

import (
	"context"
	"strings"

	"github.com/majorcontext/ghbroker/internal/credential"
)

// Username is the identity sent for token-authenticated HTTPS git. GitHub
// ignores the username when the password is a token, but this value is the
// documented convention.
const Username = "x-access-token"

// TokenFunc resolves the credential for a password prompt.
type TokenFunc func(ctx context.Context) (credential.Token, error)

// Respond classifies the prompt and returns the single output line.
// Unrecognized prompts produce an empty line rather than an error: git
// treats an empty answer as "no value", which is the safe default for
// prompts the helper does not understand.
func Respond(ctx context.Context, prompt string, resolve TokenFunc) (string, error) {
	p := strings.ToLower(prompt)
	switch {
	case strings.Contains(p, "username"):
		return Username, nil
	case strings.Contains(p, "password"):
		tok, err := resolve(ctx)
		if err != nil {
			return "", err
		}
		return tok.AccessToken, nil
	default:
		return "", nil
	}
}
