package header

import (
	"encoding/base64"
	"testing"

	"github.com/majorcontext/ghbroker/internal/credential"
)

func TestBearer(t *testing.T) {
	tok := credential.Token{AccessToken: "abc123", TokenType: "bearer"}
	if got, want := Bearer(tok), "Bearer abc123"; got != want {
		t.Errorf("Bearer() = %q, want %q", got, want)
	}
}

func TestBasic(t *testing.T) {
	tok := credential.Token{AccessToken: "abc123"}
	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("x-access-token:abc123"))
	if got := Basic(tok); got != want {
		t.Errorf("Basic() = %q, want %q", got, want)
	}
}

func TestAuthorization(t *testing.T) {
	tok := credential.Token{AccessToken: "abc123"}

	if got, want := Authorization(tok, false), "Authorization: Bearer abc123"; got != want {
		t.Errorf("Authorization(bearer) = %q, want %q", got, want)
	}

	basic := Authorization(tok, true)
	if want := "Authorization: " + Basic(tok); basic != want {
		t.Errorf("Authorization(basic) = %q, want %q", basic, want)
	}
}
