package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPICSPConfig(t *testing.T) {
	got := APICSPConfig().BuildCSPHeader()
	want := "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'"
	if got != want {
		t.Errorf("BuildCSPHeader() = %q, want %q", got, want)
	}
}

func TestBuildCSPHeader(t *testing.T) {
	tests := []struct {
		name string
		cfg  CSPConfig
		want string
	}{
		{
			name: "empty",
			cfg:  CSPConfig{},
			want: "",
		},
		{
			name: "multiple sources",
			cfg: CSPConfig{
				DefaultSrc: []string{"'self'"},
				ConnectSrc: []string{"'self'", "wss://example.com"},
			},
			want: "default-src 'self'; connect-src 'self' wss://example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.BuildCSPHeader(); got != tt.want {
				t.Errorf("BuildCSPHeader() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSecurityHeadersWithCSP(t *testing.T) {
	handler := SecurityHeadersWithCSP(APICSPConfig(), okHandler())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	headers := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Referrer-Policy":         "no-referrer",
		"Cache-Control":           "no-store",
		"Content-Security-Policy": APICSPConfig().BuildCSPHeader(),
	}
	for name, want := range headers {
		if got := w.Header().Get(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestValidateContentType(t *testing.T) {
	allowed := []string{"application/json", "text/plain"}
	tests := []struct {
		contentType string
		want        bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"Text/Plain", true},
		{"application/xml", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			if got := ValidateContentType(tt.contentType, allowed); got != tt.want {
				t.Errorf("ValidateContentType(%q) = %v, want %v", tt.contentType, got, tt.want)
			}
		})
	}
}
