package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheckOriginWithConfig(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"no origin header", []string{"https://a.example"}, "", true},
		{"no restriction", nil, "https://any.example", true},
		{"exact match", []string{"https://a.example"}, "https://a.example", true},
		{"subdomain pattern", []string{"*.a.example"}, "https://x.a.example", true},
		{"rejected", []string{"https://a.example"}, "https://b.example", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := CheckOriginWithConfig(WebSocketSecurityConfig{AllowedOrigins: tt.allowed})
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := check(r); got != tt.want {
				t.Errorf("CheckOrigin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateAuthForWebSocket(t *testing.T) {
	auth := AuthConfig{Enabled: true, APIKey: testAPIKey}
	tests := []struct {
		name   string
		config WebSocketSecurityConfig
		header string
		query  string
		want   string
	}{
		{"auth not required", WebSocketSecurityConfig{}, "", "", ""},
		{"not configured", WebSocketSecurityConfig{RequireAuth: true}, "", "", "authentication required but not configured"},
		{"missing key", WebSocketSecurityConfig{RequireAuth: true, AuthConfig: auth}, "", "", "missing API key"},
		{"header key", WebSocketSecurityConfig{RequireAuth: true, AuthConfig: auth}, testAPIKey, "", ""},
		{"query key", WebSocketSecurityConfig{RequireAuth: true, AuthConfig: auth}, "", testAPIKey, ""},
		{"wrong key", WebSocketSecurityConfig{RequireAuth: true, AuthConfig: auth}, "nope", "", "invalid API key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/ws"
			if tt.query != "" {
				target += "?api_key=" + tt.query
			}
			r := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				r.Header.Set("X-API-Key", tt.header)
			}
			if got := ValidateAuthForWebSocket(r, tt.config); got != tt.want {
				t.Errorf("ValidateAuthForWebSocket() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWebSocketRateLimiter(t *testing.T) {
	rl := NewWebSocketRateLimiter()
	client := &Client{}

	if rl.Allow(client) {
		t.Error("unregistered client allowed")
	}

	rl.Register(client, 1)
	if !rl.Allow(client) || !rl.Allow(client) {
		t.Error("burst of two denied")
	}
	if rl.Allow(client) {
		t.Error("third message allowed at one per second")
	}

	rl.Unregister(client)
	if rl.Allow(client) {
		t.Error("unregistered client allowed")
	}
}

func TestWebSocketSecurityDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WSMessageRate = 0
	cfg.Auth = AuthConfig{Enabled: true, APIKey: testAPIKey}

	sec := webSocketSecurity(cfg)
	if sec.MaxMessageRate != 10 {
		t.Errorf("MaxMessageRate = %d, want 10", sec.MaxMessageRate)
	}
	if !sec.RequireAuth {
		t.Error("RequireAuth should follow Auth.Enabled")
	}
}
