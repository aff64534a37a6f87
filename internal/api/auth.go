package api

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/FocuswithJustin/quill/internal/logging"
)

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	Enabled bool
	APIKey  string
}

// minAPIKeyLen is the shortest API key accepted.
const minAPIKeyLen = 16

// AuthMiddleware checks for API key authentication when enabled.
// Requests must carry the key in the X-API-Key header. The root and health
// endpoints are always public, and /ws checks its own handshake.
func AuthMiddleware(authCfg AuthConfig, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !authCfg.Enabled || isPublicEndpoint(r.URL.Path) || r.URL.Path == "/ws" {
			next.ServeHTTP(w, r)
			return
		}

		if reason := checkAPIKey(authCfg, r.Header.Get("X-API-Key")); reason != "" {
			logging.SecurityEvent("unauthorized_request", "auth",
				"path", r.URL.Path,
				"reason", reason)
			respondError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", reason)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// checkAPIKey returns why key does not grant access, or "" when it does.
func checkAPIKey(authCfg AuthConfig, key string) string {
	if key == "" {
		return "missing API key"
	}
	if subtle.ConstantTimeCompare([]byte(key), []byte(authCfg.APIKey)) != 1 {
		return "invalid API key"
	}
	return ""
}

// isPublicEndpoint returns true if the endpoint should always be accessible
// without authentication.
func isPublicEndpoint(path string) bool {
	return path == "/" || path == "/health"
}

// ValidateAuthConfig validates the authentication configuration.
func ValidateAuthConfig(cfg AuthConfig) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("API key is required when authentication is enabled")
	}
	if len(cfg.APIKey) < minAPIKeyLen {
		return fmt.Errorf("API key must be at least %d characters (got %d)", minAPIKeyLen, len(cfg.APIKey))
	}
	return nil
}
