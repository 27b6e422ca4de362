package audit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAttemptAndRecent(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Attempt("cache", 401, OutcomeDead, 120*time.Millisecond))
	require.NoError(t, s.Attempt("oauth", 429, OutcomeRetryable, 80*time.Millisecond))
	require.NoError(t, s.Attempt("oauth", 200, OutcomeLive, 95*time.Millisecond))

	entries, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first
	assert.Equal(t, "oauth", entries[0].Source)
	assert.Equal(t, 200, entries[0].Status)
	assert.Equal(t, OutcomeLive, entries[0].Outcome)
	assert.Equal(t, int64(95), entries[0].DurationMS)

	assert.Equal(t, "cache", entries[2].Source)
	assert.Equal(t, OutcomeDead, entries[2].Outcome)
	assert.WithinDuration(t, time.Now(), entries[0].Timestamp, time.Minute)
}

func TestRecentLimit(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Attempt("pat", 200, OutcomeLive, 0))
	}

	entries, err := s.Recent(2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRecentEmpty(t *testing.T) {
	s := openTestStore(t)
	entries, err := s.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReopenPreservesEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Attempt("oauth", 200, OutcomeLive, time.Millisecond))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	entries, err := s2.Recent(10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
