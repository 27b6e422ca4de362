// Package config resolves ghbroker settings from the environment and the
// optional per-user config file.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment variables consumed by the broker. Secrets only ever enter
// through these; they are never accepted as flags or config file values.
const (
	EnvClientID     = "GITHUB_OAUTH_CLIENT_ID"
	EnvClientSecret = "GITHUB_OAUTH_CLIENT_SECRET"
	EnvRefreshToken = "GITHUB_OAUTH_REFRESH_TOKEN"
	EnvPAT          = "GITHUB_PAT"
	EnvToken        = "GITHUB_TOKEN"
	EnvAPIBase      = "GITHUB_API_BASE"
	EnvCI           = "CI"
)

// Config holds non-secret settings from ~/.ghbroker/config.yaml plus
// environment overrides.
type Config struct {
	APIBase      string `yaml:"api_base"`
	TokenURL     string `yaml:"token_url"`
	CachePath    string `yaml:"cache_path"`
	CacheBackend string `yaml:"cache_backend"` // "file" (default) or "keyring"
	AuditPath    string `yaml:"audit_path"`
	AuditOff     bool   `yaml:"audit_off"`
}

// Dir returns the per-user state directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".ghbroker")
	}
	return filepath.Join(home, ".ghbroker")
}

// Load reads the config file if present and applies environment overrides.
// A missing or unparseable file yields defaults.
func Load() *Config {
	cfg := &Config{
		CacheBackend: "file",
	}

	data, err := os.ReadFile(filepath.Join(Dir(), "config.yaml"))
	if err == nil {
		_ = yaml.Unmarshal(data, cfg) // Ignore unmarshal errors, use defaults
	}

	if cfg.CachePath == "" {
		cfg.CachePath = filepath.Join(Dir(), "token.json")
	}
	if cfg.AuditPath == "" {
		cfg.AuditPath = filepath.Join(Dir(), "audit.db")
	}
	if base := os.Getenv(EnvAPIBase); base != "" {
		cfg.APIBase = base
	}
	return cfg
}

// InCI reports whether a CI environment indicator is set. Disk caching is
// disabled entirely under CI to avoid stale or shared-runner credential
// leakage across isolated jobs.
func InCI() bool {
	return os.Getenv(EnvCI) != ""
}

// OAuthEnv returns the three refresh-grant inputs from the environment.
func OAuthEnv() (clientID, clientSecret, refreshToken string) {
	return os.Getenv(EnvClientID), os.Getenv(EnvClientSecret), os.Getenv(EnvRefreshToken)
}

// StaticToken returns the first configured pre-issued token and the variable
// it came from, checking the dedicated PAT variable before the generic one.
func StaticToken() (token, name string) {
	for _, name := range []string{EnvPAT, EnvToken} {
		if v := os.Getenv(name); v != "" {
			return v, name
		}
	}
	return "", ""
}
