// Package audit records credential resolution attempts in a local SQLite
// database for the dashboard and report tooling. Token values are never
// stored; each row carries only the source name, the HTTP status observed,
// the outcome, and timing.
package audit

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration
)

// Outcome classifies how an attempt against a single source ended.
type Outcome string

const (
	OutcomeLive        Outcome = "live"         // Probe accepted the token
	OutcomeDead        Outcome = "dead"         // Token revoked or rejected
	OutcomeRetryable   Outcome = "retryable"    // Transient failure, retried or abandoned after retries
	OutcomeUnavailable Outcome = "unavailable"  // Source not configured or empty
	OutcomeMalformed   Outcome = "malformed"    // Token endpoint response lacked an access token
	OutcomeError       Outcome = "source_error" // Source failed before a probe happened
)

// Entry is one resolution attempt against one source.
type Entry struct {
	Seq        int64     `json:"seq"`
	Timestamp  time.Time `json:"ts"`
	Source     string    `json:"source"`
	Status     int       `json:"status"`
	Outcome    Outcome   `json:"outcome"`
	DurationMS int64     `json:"duration_ms"`
}

// Store appends and queries resolution attempts.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens or creates the audit database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening audit database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS attempts (
			seq         INTEGER PRIMARY KEY AUTOINCREMENT,
			ts          TEXT NOT NULL,
			source      TEXT NOT NULL,
			status      INTEGER NOT NULL,
			outcome     TEXT NOT NULL,
			duration_ms INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_attempts_ts ON attempts(ts);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating audit tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Attempt appends one attempt record.
func (s *Store) Attempt(source string, status int, outcome Outcome, dur time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO attempts (ts, source, status, outcome, duration_ms) VALUES (?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano), source, status, string(outcome), dur.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("recording attempt: %w", err)
	}
	return nil
}

// Recent returns the most recent n attempts, newest first.
func (s *Store) Recent(n int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT seq, ts, source, status, outcome, duration_ms FROM attempts ORDER BY seq DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("querying attempts: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts, outcome string
		if err := rows.Scan(&e.Seq, &ts, &e.Source, &e.Status, &outcome, &e.DurationMS); err != nil {
			return nil, fmt.Errorf("scanning attempt: %w", err)
		}
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		e.Outcome = Outcome(outcome)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
