package config

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("GATEKEEPER_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.ListenAddr)
	require.Equal(t, "localhost", cfg.Domain)
	require.Equal(t, uint64(1), cfg.ChainID)
	require.Equal(t, CSRFEnforce, cfg.CSRFMode, "enforce must be the default")
	require.Equal(t, http.SameSiteLaxMode, cfg.CookieSameSite)
	require.False(t, cfg.CookieSecure)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("GATEKEEPER_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadCSRFMode(t *testing.T) {
	setRequired(t)

	t.Setenv("GATEKEEPER_CSRF_MODE", "log-only")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, CSRFLogOnly, cfg.CSRFMode)

	t.Setenv("GATEKEEPER_CSRF_MODE", "off")
	_, err = Load()
	require.Error(t, err, "unknown csrf modes must be rejected, not defaulted")
}

func TestLoadParsesValues(t *testing.T) {
	setRequired(t)
	t.Setenv("GATEKEEPER_CHAIN_ID", "137")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("COOKIE_SAMESITE", "strict")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, uint64(137), cfg.ChainID)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	require.True(t, cfg.CookieSecure)
	require.Equal(t, http.SameSiteStrictMode, cfg.CookieSameSite)
}

func TestLoadRejectsBadChainID(t *testing.T) {
	setRequired(t)
	t.Setenv("GATEKEEPER_CHAIN_ID", "mainnet")

	_, err := Load()
	require.Error(t, err)
}
