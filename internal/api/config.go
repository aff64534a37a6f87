package api

import (
	"fmt"
	"time"
)

// Config holds server configuration.
type Config struct {
	Port              int
	Version           string        // Reported by / and /health
	CacheTTL          time.Duration // How long a parsed query stays cached (0 = forever)
	CacheSize         int           // Maximum cached queries (0 = unbounded)
	MaxQueryBytes     int64         // Request body and WebSocket frame limit
	RateLimitRequests int           // Requests per minute (0 = disabled)
	RateLimitBurst    int           // Burst size
	Auth              AuthConfig    // Authentication configuration
	TLS               TLSConfig     // TLS configuration
	AllowedOrigins    []string      // CORS and WebSocket allowed origins (empty = allow all)
	WSMessageRate     int           // WebSocket queries per second per client
}

// TLSConfig holds TLS/HTTPS configuration.
type TLSConfig struct {
	Enabled  bool   // Enable HTTPS
	CertFile string // Path to TLS certificate file
	KeyFile  string // Path to TLS private key file
}

// DefaultConfig returns the configuration used when no flags are given.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		Version:        "dev",
		CacheTTL:       10 * time.Minute,
		CacheSize:      1024,
		MaxQueryBytes:  1 << 20,
		RateLimitBurst: 10,
		WSMessageRate:  10,
	}
}

// Validate reports the first problem with the configuration.
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.MaxQueryBytes <= 0 {
		return fmt.Errorf("max query bytes must be positive (got %d)", c.MaxQueryBytes)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache TTL must not be negative (got %s)", c.CacheTTL)
	}
	if c.TLS.Enabled && (c.TLS.CertFile == "" || c.TLS.KeyFile == "") {
		return fmt.Errorf("TLS enabled but cert or key file not specified")
	}
	if err := ValidateAuthConfig(c.Auth); err != nil {
		return fmt.Errorf("invalid auth config: %w", err)
	}
	return nil
}
