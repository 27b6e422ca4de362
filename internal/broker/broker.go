// Package broker resolves a usable GitHub access token without prompting.
//
// Sources are tried in fixed priority order, cheapest first: the cache costs
// only its probe, a refresh-token exchange costs one round trip but yields a
// token the broker controls, and a pre-issued PAT is last because the broker
// cannot rotate it. Every candidate token is live-probed before use.
package broker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/majorcontext/ghbroker/internal/audit"
	"github.com/majorcontext/ghbroker/internal/backoff"
	"github.com/majorcontext/ghbroker/internal/config"
	"github.com/majorcontext/ghbroker/internal/credential"
	"github.com/majorcontext/ghbroker/internal/log"
	"github.com/majorcontext/ghbroker/internal/oauth"
	"github.com/majorcontext/ghbroker/internal/probe"
)

// maxProbeAttempts bounds the probe-retry loop per source.
const maxProbeAttempts = 3

// Recorder receives one record per probe or source failure. Implementations
// must not be given token material.
type Recorder interface {
	Attempt(source string, status int, outcome audit.Outcome, dur time.Duration) error
}

// Broker composes the cache, the refresher, and the static source into the
// resolution chain.
type Broker struct {
	Store     credential.TokenStore
	Prober    *probe.Prober
	Refresher *oauth.Refresher // nil or unconfigured skips the oauth source
	Backoff   *backoff.Policy

	// Sleep is called between probe retries. Override in tests; nil means
	// time.Sleep.
	Sleep func(time.Duration)
	// Static reads the pre-issued token from the environment. Override in
	// tests; nil means config.StaticToken.
	Static func() (token, name string)
	// Audit, when non-nil, receives attempt records. Failures are logged
	// and otherwise ignored: auditing never fails a resolution.
	Audit Recorder
}

// New creates a broker over the given collaborators.
func New(store credential.TokenStore, prober *probe.Prober, refresher *oauth.Refresher, policy *backoff.Policy) *Broker {
	return &Broker{
		Store:     store,
		Prober:    prober,
		Refresher: refresher,
		Backoff:   policy,
	}
}

// GetToken returns a valid, live-probed token, or an *ExhaustedSourcesError
// naming every source attempted and why it failed. All per-source errors are
// absorbed here; callers only ever observe success or exhaustion.
func (b *Broker) GetToken(ctx context.Context) (credential.Token, error) {
	var attempts []SourceAttempt

	tok, detail, ok := b.fromCache(ctx)
	if ok {
		return tok, nil
	}
	attempts = append(attempts, SourceAttempt{credential.SourceCache, detail})

	tok, detail, ok = b.fromOAuth(ctx)
	if ok {
		return tok, nil
	}
	attempts = append(attempts, SourceAttempt{credential.SourceOAuth, detail})

	tok, detail, ok = b.fromStatic(ctx)
	if ok {
		return tok, nil
	}
	attempts = append(attempts, SourceAttempt{credential.SourcePAT, detail})

	return credential.Token{}, &ExhaustedSourcesError{Attempts: attempts}
}

// fromCache tries the persisted token. A single probe decides: there is no
// point retrying a cached token through backoff when a fresh one may be one
// refresh away.
func (b *Broker) fromCache(ctx context.Context) (credential.Token, string, bool) {
	tok, err := b.Store.Load()
	if err != nil {
		if !errors.Is(err, credential.ErrCacheMiss) {
			log.Warn("cache unreadable", "error", err)
			return credential.Token{}, "unreadable", false
		}
		return credential.Token{}, "empty", false
	}
	if !tok.Usable() {
		b.record(credential.SourceCache, 0, audit.OutcomeUnavailable, 0)
		log.Debug("cached token inside early-refresh window, bypassing cache")
		return credential.Token{}, "expiring", false
	}

	start := time.Now()
	status := b.Prober.Probe(ctx, tok.AccessToken)
	if probe.IsLive(status) {
		b.record(credential.SourceCache, status, audit.OutcomeLive, time.Since(start))
		tok.Source = credential.SourceCache
		return tok, "", true
	}

	outcome := audit.OutcomeDead
	if probe.IsRetryable(status) {
		outcome = audit.OutcomeRetryable
	}
	b.record(credential.SourceCache, status, outcome, time.Since(start))
	log.Debug("cached token rejected", "status", status)
	return credential.Token{}, fmt.Sprintf("probe %d", status), false
}

func (b *Broker) fromOAuth(ctx context.Context) (credential.Token, string, bool) {
	if b.Refresher == nil || !b.Refresher.Configured() {
		return credential.Token{}, "not configured", false
	}

	start := time.Now()
	tok, err := b.Refresher.Refresh(ctx)
	if err != nil {
		var malformed *oauth.MalformedResponseError
		if errors.As(err, &malformed) {
			// Configuration defect, not a network problem. Log it loudly and
			// distinctly so an operator can tell the two apart.
			b.record(credential.SourceOAuth, malformed.Status, audit.OutcomeMalformed, time.Since(start))
			log.Error("token endpoint response missing access token", "status", malformed.Status)
			return credential.Token{}, "malformed response", false
		}
		b.record(credential.SourceOAuth, 0, audit.OutcomeError, time.Since(start))
		log.Warn("token refresh failed", "error", err)
		return credential.Token{}, "refresh failed", false
	}

	status, live := b.probeWithRetry(ctx, credential.SourceOAuth, tok.AccessToken)
	if !live {
		return credential.Token{}, probeDetail(status), false
	}

	if err := b.Store.Store(tok); err != nil {
		// A failed write only costs the next invocation a refresh.
		log.Warn("persisting refreshed token failed", "error", err)
	}
	return tok, "", true
}

func (b *Broker) fromStatic(ctx context.Context) (credential.Token, string, bool) {
	static := b.Static
	if static == nil {
		static = config.StaticToken
	}
	value, name := static()
	if value == "" {
		return credential.Token{}, "not configured", false
	}
	log.Debug("using static token", "var", name)

	status, live := b.probeWithRetry(ctx, credential.SourcePAT, value)
	if !live {
		return credential.Token{}, probeDetail(status), false
	}

	// Never persisted: the broker does not own a PAT's lifecycle.
	return credential.Token{
		AccessToken: value,
		TokenType:   "bearer",
		Source:      credential.SourcePAT,
	}, "", true
}

// probeWithRetry probes a candidate token up to maxProbeAttempts times,
// backing off between transient failures. Returns the last status and
// whether the token is live. Non-retryable statuses end the loop at once.
func (b *Broker) probeWithRetry(ctx context.Context, source credential.Source, accessToken string) (int, bool) {
	var status int
	for attempt := 0; attempt < maxProbeAttempts; attempt++ {
		start := time.Now()
		status = b.Prober.Probe(ctx, accessToken)

		if probe.IsLive(status) {
			b.record(source, status, audit.OutcomeLive, time.Since(start))
			return status, true
		}
		if !probe.IsRetryable(status) {
			b.record(source, status, audit.OutcomeDead, time.Since(start))
			log.Debug("token rejected", "source", source, "status", status)
			return status, false
		}

		b.record(source, status, audit.OutcomeRetryable, time.Since(start))
		if attempt < maxProbeAttempts-1 {
			delay := b.Backoff.Delay(attempt)
			log.Debug("transient probe failure, backing off",
				"source", source, "status", status, "attempt", attempt, "delay", delay)
			b.sleep(delay)
		}
	}
	log.Debug("probe retries exhausted", "source", source, "status", status)
	return status, false
}

func (b *Broker) sleep(d time.Duration) {
	if b.Sleep != nil {
		b.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (b *Broker) record(source credential.Source, status int, outcome audit.Outcome, dur time.Duration) {
	if b.Audit == nil {
		return
	}
	if err := b.Audit.Attempt(string(source), status, outcome, dur); err != nil {
		log.Warn("audit record failed", "error", err)
	}
}

func probeDetail(status int) string {
	if probe.IsRetryable(status) {
		return fmt.Sprintf("probe %d after %d attempts", status, maxProbeAttempts)
	}
	return fmt.Sprintf("probe %d", status)
}
