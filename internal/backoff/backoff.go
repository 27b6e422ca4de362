// Package backoff computes retry delays for probe attempts.
package backoff

import (
	"math/rand"
	"time"
)

const (
	// Floor is the minimum delay applied on every attempt.
	Floor = 250 * time.Millisecond
	// JitterSpread is the width of the random component added to each delay.
	JitterSpread = 250 * time.Millisecond
	// Cap bounds the exponential factor so late attempts stop growing.
	Cap = 16
	// ScaleFactor converts the exponential factor into a duration.
	ScaleFactor = time.Second
)

// Policy produces jittered exponential delays:
//
//	delay = Floor + random(0, JitterSpread) + min(2^attempt, Cap) * ScaleFactor
//
// Delay has no side effects beyond advancing the policy's random stream, so a
// fixed seed yields a reproducible delay sequence.
type Policy struct {
	rng *rand.Rand
}

// New creates a policy seeded from the current time.
func New() *Policy {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded creates a policy with a fixed seed for deterministic tests.
func NewSeeded(seed int64) *Policy {
	return &Policy{rng: rand.New(rand.NewSource(seed))}
}

// Delay returns the wait before retrying after the given zero-based attempt.
// Always at least Floor; never zero.
func (p *Policy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	factor := int64(1) << uint(attempt)
	if attempt >= 63 || factor > Cap {
		factor = Cap
	}

	jitter := time.Duration(p.rng.Int63n(int64(JitterSpread)))
	return Floor + jitter + time.Duration(factor)*ScaleFactor
}
