package cli

import (
	"github.com/majorcontext/ghbroker/internal/audit"
	"github.com/majorcontext/ghbroker/internal/backoff"
	"github.com/majorcontext/ghbroker/internal/broker"
	"github.com/majorcontext/ghbroker/internal/config"
	"github.com/majorcontext/ghbroker/internal/credential"
	"github.com/majorcontext/ghbroker/internal/log"
	"github.com/majorcontext/ghbroker/internal/oauth"
	"github.com/majorcontext/ghbroker/internal/probe"
)

// newStore selects the token store. CI always gets the no-op store so the
// resolution algorithm itself never has to consult the environment.
func newStore(cfg *config.Config) (credential.TokenStore, error) {
	if config.InCI() {
		return credential.NoopStore{}, nil
	}
	if cfg.CacheBackend == "keyring" {
		ks := credential.NewKeyringStore()
		if ks.Available() {
			return ks, nil
		}
		log.Debug("keychain unavailable, falling back to file store")
	}
	return credential.NewFileStore(cfg.CachePath)
}

// newBroker wires a broker from config and environment. The returned cleanup
// closes the audit store and must be called after the final resolution.
func newBroker(cfg *config.Config) (*broker.Broker, func(), error) {
	store, err := newStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	clientID, clientSecret, refreshToken := config.OAuthEnv()
	b := broker.New(store, probe.New(cfg.APIBase), &oauth.Refresher{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RefreshToken: refreshToken,
	}, backoff.New())

	cleanup := func() {}
	if !cfg.AuditOff && !config.InCI() {
		auditStore, err := audit.Open(cfg.AuditPath)
		if err != nil {
			// Auditing is best-effort; resolution proceeds without it.
			log.Warn("audit store unavailable", "error", err)
		} else {
			b.Audit = auditStore
			cleanup = func() { auditStore.Close() }
		}
	}
	return b, cleanup, nil
}
