package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/majorcontext/ghbroker/internal/credential"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRefresher(url string) *Refresher {
	return &Refresher{
		ClientID:     "cid",
		ClientSecret: "csec",
		RefreshToken: "rtok",
		TokenURL:     url,
	}
}

func TestRefreshSuccess(t *testing.T) {
	var gotBody map[string]string
	var gotContentType, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotAccept = r.Header.Get("Accept")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"abc","token_type":"Bearer","expires_in":3600,"scope":"repo"}`))
	}))
	defer server.Close()

	tok, err := newRefresher(server.URL).Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "abc", tok.AccessToken)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.Equal(t, credential.SourceOAuth, tok.Source)
	assert.Equal(t, "repo", tok.Scopes)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, 10*time.Second)

	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": "rtok",
		"client_id":     "cid",
		"client_secret": "csec",
	}, gotBody)
}

func TestRefreshWithoutExpiresIn(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"abc"}`))
	}))
	defer server.Close()

	tok, err := newRefresher(server.URL).Refresh(context.Background())
	require.NoError(t, err)

	assert.True(t, tok.ExpiresAt.IsZero(), "expiry must be absent when expires_in is missing")
	assert.Equal(t, "bearer", tok.TokenType, "token_type must default to bearer")
}

func TestRefreshMissingAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token_type":"bearer"}`))
	}))
	defer server.Close()

	_, err := newRefresher(server.URL).Refresh(context.Background())
	require.Error(t, err)

	var malformed *MalformedResponseError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, http.StatusOK, malformed.Status)
}

func TestRefreshInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := newRefresher(server.URL).Refresh(context.Background())
	var malformed *MalformedResponseError
	require.True(t, errors.As(err, &malformed))
}

func TestRefreshErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad_refresh_token","error_description":"The refresh token is invalid."}`))
	}))
	defer server.Close()

	_, err := newRefresher(server.URL).Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad_refresh_token")

	var malformed *MalformedResponseError
	assert.False(t, errors.As(err, &malformed), "error status is not a malformed response")
}

func TestRefreshTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := newRefresher(server.URL).Refresh(context.Background())
	require.Error(t, err)
}

func TestConfigured(t *testing.T) {
	tests := []struct {
		name string
		r    Refresher
		want bool
	}{
		{"all present", Refresher{ClientID: "a", ClientSecret: "b", RefreshToken: "c"}, true},
		{"missing id", Refresher{ClientSecret: "b", RefreshToken: "c"}, false},
		{"missing secret", Refresher{ClientID: "a", RefreshToken: "c"}, false},
		{"missing refresh token", Refresher{ClientID: "a", ClientSecret: "b"}, false},
		{"empty", Refresher{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.Configured())
		})
	}
}
