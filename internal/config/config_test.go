package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvAPIBase, "")
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolateHome(t)

	cfg := Load()
	assert.Equal(t, "", cfg.APIBase)
	assert.Equal(t, "file", cfg.CacheBackend)
	assert.Equal(t, filepath.Join(home, ".ghbroker", "token.json"), cfg.CachePath)
	assert.Equal(t, filepath.Join(home, ".ghbroker", "audit.db"), cfg.AuditPath)
	assert.False(t, cfg.AuditOff)
}

func TestLoadConfigFile(t *testing.T) {
	home := isolateHome(t)
	dir := filepath.Join(home, ".ghbroker")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(
		"api_base: https://github.example.com/api/v3\ncache_backend: keyring\naudit_off: true\n",
	), 0600))

	cfg := Load()
	assert.Equal(t, "https://github.example.com/api/v3", cfg.APIBase)
	assert.Equal(t, "keyring", cfg.CacheBackend)
	assert.True(t, cfg.AuditOff)
}

func TestLoadUnparseableFileYieldsDefaults(t *testing.T) {
	home := isolateHome(t)
	dir := filepath.Join(home, ".ghbroker")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{{{"), 0600))

	cfg := Load()
	assert.Equal(t, "file", cfg.CacheBackend)
}

func TestEnvOverridesFile(t *testing.T) {
	home := isolateHome(t)
	dir := filepath.Join(home, ".ghbroker")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(
		"api_base: https://from-file.example.com\n",
	), 0600))
	t.Setenv(EnvAPIBase, "https://from-env.example.com")

	cfg := Load()
	assert.Equal(t, "https://from-env.example.com", cfg.APIBase)
}

func TestInCI(t *testing.T) {
	t.Setenv(EnvCI, "")
	assert.False(t, InCI())

	t.Setenv(EnvCI, "true")
	assert.True(t, InCI())

	t.Setenv(EnvCI, "1")
	assert.True(t, InCI())
}

func TestStaticTokenOrder(t *testing.T) {
	t.Setenv(EnvPAT, "")
	t.Setenv(EnvToken, "")

	token, name := StaticToken()
	assert.Empty(t, token)
	assert.Empty(t, name)

	t.Setenv(EnvToken, "from-generic")
	token, name = StaticToken()
	assert.Equal(t, "from-generic", token)
	assert.Equal(t, EnvToken, name)

	// The dedicated variable wins over the generic one.
	t.Setenv(EnvPAT, "from-pat")
	token, name = StaticToken()
	assert.Equal(t, "from-pat", token)
	assert.Equal(t, EnvPAT, name)
}

func TestOAuthEnv(t *testing.T) {
	t.Setenv(EnvClientID, "cid")
	t.Setenv(EnvClientSecret, "csec")
	t.Setenv(EnvRefreshToken, "rtok")

	id, secret, refresh := OAuthEnv()
	assert.Equal(t, "cid", id)
	assert.Equal(t, "csec", secret)
	assert.Equal(t, "rtok", refresh)
}
