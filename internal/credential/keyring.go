package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

const (
	// keyringService is the keyring service identifier. Overridable with
	// GHBROKER_KEYRING_SERVICE for test isolation.
	keyringService = "ghbroker"
	keyringAccount = "token"
)

func serviceName() string {
	if s := os.Getenv("GHBROKER_KEYRING_SERVICE"); s != "" {
		return s
	}
	return keyringService
}

// KeyringStore persists the token in the OS keychain.
//
// Platform support follows go-keyring: Keychain on macOS, Credential Manager
// on Windows, libsecret/kwallet/pass on Linux. On headless machines the
// keychain is typically unavailable; Available reports whether a round trip
// works so callers can fall back to a FileStore.
type KeyringStore struct{}

// NewKeyringStore creates a keychain-backed store.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

// Available reports whether the OS keychain can be used.
func (s *KeyringStore) Available() bool {
	_, err := keyring.Get(serviceName(), keyringAccount)
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// Load reads the persisted token from the keychain.
func (s *KeyringStore) Load() (Token, error) {
	data, err := keyring.Get(serviceName(), keyringAccount)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return Token{}, ErrCacheMiss
		}
		return Token{}, fmt.Errorf("reading token from keychain: %w", err)
	}

	var tok Token
	if err := json.Unmarshal([]byte(data), &tok); err != nil {
		return Token{}, fmt.Errorf("unmarshaling keychain token: %w", err)
	}
	if tok.AccessToken == "" {
		return Token{}, ErrCacheMiss
	}
	return tok, nil
}

// Store replaces the persisted token in the keychain.
func (s *KeyringStore) Store(tok Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("marshaling token: %w", err)
	}
	if err := keyring.Set(serviceName(), keyringAccount, string(data)); err != nil {
		return fmt.Errorf("writing token to keychain: %w", err)
	}
	return nil
}

// Clear removes the persisted token from the keychain. Missing entry is not
// an error.
func (s *KeyringStore) Clear() error {
	if err := keyring.Delete(serviceName(), keyringAccount); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("removing token from keychain: %w", err)
	}
	return nil
}
