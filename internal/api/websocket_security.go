package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/FocuswithJustin/quill/internal/logging"
	"github.com/FocuswithJustin/quill/internal/server"
)

// WebSocketSecurityConfig holds WebSocket-specific security configuration.
type WebSocketSecurityConfig struct {
	// AllowedOrigins lists the browser origins that may connect. Empty
	// allows every origin.
	AllowedOrigins []string

	// MaxMessageRate is the maximum number of queries per second per client.
	MaxMessageRate int

	// RequireAuth indicates whether an API key is needed to connect.
	RequireAuth bool

	// AuthConfig is the authentication configuration to use.
	AuthConfig AuthConfig
}

// webSocketSecurity derives the WebSocket settings from the server config.
func webSocketSecurity(cfg Config) WebSocketSecurityConfig {
	rate := cfg.WSMessageRate
	if rate <= 0 {
		rate = 10
	}
	return WebSocketSecurityConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		MaxMessageRate: rate,
		RequireAuth:    cfg.Auth.Enabled,
		AuthConfig:     cfg.Auth,
	}
}

// WebSocketRateLimiter tracks message rates per client.
type WebSocketRateLimiter struct {
	clients map[*Client]*tokenBucket
	mu      sync.RWMutex
}

// NewWebSocketRateLimiter creates a new WebSocket rate limiter.
func NewWebSocketRateLimiter() *WebSocketRateLimiter {
	return &WebSocketRateLimiter{
		clients: make(map[*Client]*tokenBucket),
	}
}

// Register registers a client for rate limiting. Clients may burst to twice
// their per-second rate.
func (rl *WebSocketRateLimiter) Register(client *Client, messagesPerSecond int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rate := float64(messagesPerSecond)
	rl.clients[client] = newTokenBucket(rate*2, rate)
}

// Unregister removes a client from rate limiting.
func (rl *WebSocketRateLimiter) Unregister(client *Client) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.clients, client)
}

// Allow checks if a message from the client should be allowed.
// Unregistered clients are denied.
func (rl *WebSocketRateLimiter) Allow(client *Client) bool {
	rl.mu.RLock()
	bucket, exists := rl.clients[client]
	rl.mu.RUnlock()

	if !exists {
		return false
	}
	return bucket.allow()
}

// CheckOriginWithConfig creates a CheckOrigin function based on security
// config. Requests without an Origin header come from non-browser clients
// and are allowed; API keys gate those.
func CheckOriginWithConfig(config WebSocketSecurityConfig) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(config.AllowedOrigins) == 0 {
			return true
		}

		if !server.OriginAllowed(origin, config.AllowedOrigins) {
			logging.SecurityEvent("websocket_origin_rejected", "websocket", "origin", origin)
			return false
		}
		return true
	}
}

// ValidateAuthForWebSocket checks authentication before WebSocket upgrade.
// Returns an error message if authentication fails, empty string if success.
func ValidateAuthForWebSocket(r *http.Request, config WebSocketSecurityConfig) string {
	if !config.RequireAuth {
		return ""
	}
	if !config.AuthConfig.Enabled {
		return "authentication required but not configured"
	}

	apiKey := r.Header.Get("X-API-Key")
	if apiKey == "" {
		// Browsers cannot set headers on a WebSocket handshake
		apiKey = r.URL.Query().Get("api_key")
	}
	return checkAPIKey(config.AuthConfig, apiKey)
}

// newUpgrader builds the upgrader for config.
func newUpgrader(config WebSocketSecurityConfig) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     CheckOriginWithConfig(config),
	}
}

// handleWebSocket authenticates the request, upgrades it and starts a
// parse session.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	remote := getClientIP(r)

	if reason := ValidateAuthForWebSocket(r, s.wsSecurity); reason != "" {
		logging.SecurityEvent("unauthorized_request", "websocket",
			"remote", remote,
			"reason", reason)
		respondError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", reason)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		logging.WarnContext(r.Context(), "websocket upgrade failed", "error", err, "remote", remote)
		return
	}

	client := newClient(context.WithoutCancel(r.Context()), s.hub, conn, remote)
	if !s.hub.add(client) {
		conn.Close()
		return
	}
	s.wsLimiter.Register(client, s.wsSecurity.MaxMessageRate)

	go client.writePump()
	go s.readPump(client)
}
