package broker

import (
	"fmt"
	"strings"

	"github.com/majorcontext/ghbroker/internal/credential"
)

// SourceAttempt records why one source failed to yield a usable token.
// Detail is human-readable and never contains credential material.
type SourceAttempt struct {
	Source credential.Source
	Detail string
}

// ExhaustedSourcesError is the only failure visible outside the broker:
// every source was attempted or unavailable and none produced a live token.
type ExhaustedSourcesError struct {
	Attempts []SourceAttempt
}

func (e *ExhaustedSourcesError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s (%s)", a.Source, a.Detail))
	}
	return "no usable github credential: " + strings.Join(parts, ", ")
}
