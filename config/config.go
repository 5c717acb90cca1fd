// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
)

// CSRFMode selects how the CSRF guard treats failing requests.
type CSRFMode string

const (
	// CSRFEnforce rejects requests failing the CSRF check. This is the default;
	// a deployed configuration must never silently fall back to log-only.
	CSRFEnforce CSRFMode = "enforce"

	// CSRFLogOnly performs the same check but only logs failures. Local
	// iteration only.
	CSRFLogOnly CSRFMode = "log-only"
)

// Config holds the externally supplied service configuration.
type Config struct {
	ListenAddr string

	// Secret signs session tokens. Required.
	Secret string

	// Domain and ChainID are bound into every challenge message.
	Domain  string
	ChainID uint64

	CSRFMode CSRFMode

	// CORSOrigins is the allow-list of origins permitted to call the API.
	CORSOrigins []string

	CookieSecure   bool
	CookieSameSite http.SameSite

	// RedisURL selects the Redis-backed stores and limiter when set;
	// otherwise everything runs in memory.
	RedisURL string
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	secret := strings.TrimSpace(os.Getenv("GATEKEEPER_SECRET"))
	if secret == "" {
		return Config{}, fmt.Errorf("GATEKEEPER_SECRET is required")
	}

	chainID, err := parseUintEnv("GATEKEEPER_CHAIN_ID", 1)
	if err != nil {
		return Config{}, err
	}

	mode := CSRFEnforce
	switch strings.ToLower(getenv("GATEKEEPER_CSRF_MODE", string(CSRFEnforce))) {
	case string(CSRFEnforce):
	case string(CSRFLogOnly):
		mode = CSRFLogOnly
	default:
		return Config{}, fmt.Errorf("GATEKEEPER_CSRF_MODE must be %q or %q", CSRFEnforce, CSRFLogOnly)
	}

	return Config{
		ListenAddr:     getenv("LISTEN_ADDR", ":9000"),
		Secret:         secret,
		Domain:         getenv("GATEKEEPER_DOMAIN", "localhost"),
		ChainID:        chainID,
		CSRFMode:       mode,
		CORSOrigins:    splitList(getenv("CORS_ORIGINS", "")),
		CookieSecure:   parseBoolEnv("COOKIE_SECURE"),
		CookieSameSite: parseSameSite(getenv("COOKIE_SAMESITE", "lax")),
		RedisURL:       strings.TrimSpace(os.Getenv("REDIS_URL")),
	}, nil
}

func getenv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func parseBoolEnv(key string) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return value == "1" || value == "true" || value == "yes"
}

func parseUintEnv(key string, fallback uint64) (uint64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a positive integer: %w", key, err)
	}
	return parsed, nil
}

func parseSameSite(value string) http.SameSite {
	switch strings.ToLower(value) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
