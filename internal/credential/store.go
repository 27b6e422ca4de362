package credential

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists a single token as a JSON file, readable only by the
// owning user. Writes go through a temp file in the same directory followed
// by a rename, so a concurrent reader never observes a torn write.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path, creating the parent
// directory if needed.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the cache file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the persisted token. Returns ErrCacheMiss if the file does not
// exist or holds no token.
func (s *FileStore) Load() (Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Token{}, ErrCacheMiss
		}
		return Token{}, fmt.Errorf("reading cache file: %w", err)
	}

	var tok Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return Token{}, fmt.Errorf("unmarshaling cached token: %w", err)
	}
	if tok.AccessToken == "" {
		return Token{}, ErrCacheMiss
	}
	return tok, nil
}

// Store atomically replaces the persisted token.
func (s *FileStore) Store(tok Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("marshaling token: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("setting cache file permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing cache file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing cache file: %w", err)
	}
	return nil
}

// Clear removes the persisted token. Missing file is not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing cache file: %w", err)
	}
	return nil
}

// NoopStore is the store wired in for CI environments: reads always miss and
// writes are discarded, so nothing leaks across shared-runner jobs.
type NoopStore struct{}

func (NoopStore) Load() (Token, error) { return Token{}, ErrCacheMiss }
func (NoopStore) Store(Token) error    { return nil }
func (NoopStore) Clear() error         { return nil }

// DefaultCachePath returns the per-user token cache location.
func DefaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fall back to current directory if home is unavailable
		return filepath.Join(".", ".ghbroker", "token.json")
	}
	return filepath.Join(home, ".ghbroker", "token.json")
}
