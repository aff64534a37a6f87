// Package api provides the quill parse service: an HTTP and WebSocket front
// end that parses, tokenizes and formats queries.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/FocuswithJustin/quill/internal/cache"
	"github.com/FocuswithJustin/quill/internal/logging"
	"github.com/FocuswithJustin/quill/internal/server"
)

// slowRequest is the duration above which a request is logged as slow.
const slowRequest = 250 * time.Millisecond

// Server is the parse service. Create one with New and release it with Close.
type Server struct {
	cfg        Config
	cache      *cache.QueryCache
	hub        *Hub
	limiter    *RateLimiter // nil when rate limiting is disabled
	wsLimiter  *WebSocketRateLimiter
	wsSecurity WebSocketSecurityConfig
	upgrader   websocket.Upgrader
	started    time.Time
	handler    http.Handler
}

// New validates cfg and builds a Server. The WebSocket hub starts running
// immediately.
func New(cfg Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:        cfg,
		cache:      cache.NewQueryCache(cfg.CacheTTL, cfg.CacheSize),
		hub:        NewHub(),
		wsLimiter:  NewWebSocketRateLimiter(),
		wsSecurity: webSocketSecurity(cfg),
		started:    time.Now(),
	}
	s.upgrader = newUpgrader(s.wsSecurity)
	if cfg.RateLimitRequests > 0 {
		s.limiter = NewRateLimiter(RateLimiterConfig{
			RequestsPerMinute: cfg.RateLimitRequests,
			BurstSize:         cfg.RateLimitBurst,
		})
	}
	s.handler = s.buildHandler()

	go s.hub.Run()
	return s, nil
}

// Handler returns the HTTP handler with the full middleware chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Close stops the hub, closing every WebSocket session, and the rate limiter.
func (s *Server) Close() {
	s.hub.Stop()
	if s.limiter != nil {
		s.limiter.Close()
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/parse", s.handleParse)
	mux.HandleFunc("/tokenize", s.handleTokenize)
	mux.HandleFunc("/format", s.handleFormat)
	mux.HandleFunc("/ws", s.handleWebSocket)

	return mux
}

// buildHandler wraps the routes, innermost first, in security headers,
// authentication, rate limiting, CORS and request logging.
func (s *Server) buildHandler() http.Handler {
	var handler http.Handler = s.setupRoutes()
	handler = server.SecurityHeadersWithCSP(server.APICSPConfig(), handler)
	handler = AuthMiddleware(s.cfg.Auth, handler)
	if s.limiter != nil {
		handler = s.limiter.Middleware(handler)
	}
	handler = server.CORSMiddlewareWithConfig(server.CORSConfig{AllowedOrigins: s.cfg.AllowedOrigins}, handler)
	handler = server.SlowRequestMiddleware(slowRequest, handler)
	return logging.CombinedMiddleware(handler)
}

// purgeLoop drops expired queries from the cache until ctx is done.
func (s *Server) purgeLoop(ctx context.Context) {
	if s.cfg.CacheTTL <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CacheTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.cache.Purge(); n > 0 {
				logging.CacheEvent("purge", s.cache.Stats().Entries, "removed", n)
			}
		}
	}
}

// logStartup records the effective security posture.
func (s *Server) logStartup() {
	cfg := s.cfg
	protocol, wsProtocol := "http", "ws"
	if cfg.TLS.Enabled {
		protocol, wsProtocol = "https", "wss"
		logging.Info("TLS enabled", "cert_file", cfg.TLS.CertFile)
	} else {
		logging.Warn("TLS disabled - using plain HTTP",
			"recommendation", "consider using TLS or reverse proxy for production")
	}

	logging.SecurityEvent("authentication_configured", "api", "enabled", cfg.Auth.Enabled)
	if len(cfg.AllowedOrigins) > 0 {
		logging.SecurityEvent("cors_configured", "api",
			"mode", "restricted",
			"allowed_origins_count", len(cfg.AllowedOrigins))
	} else {
		logging.SecurityEvent("cors_configured", "api",
			"mode", "permissive",
			"note", "allowing all origins (*) - consider restricting for production")
	}
	if s.limiter != nil {
		logging.Info("rate limiting enabled",
			"requests_per_minute", cfg.RateLimitRequests,
			"burst_size", s.limiter.config.BurstSize)
	}

	logging.ServerStartup("parse_service", protocol, cfg.Port,
		"websocket_protocol", wsProtocol,
		"cache_ttl", cfg.CacheTTL.String(),
		"cache_size", cfg.CacheSize,
		"max_query_bytes", cfg.MaxQueryBytes)
}

// Start serves the parse service until ctx is cancelled, then shuts down
// gracefully.
func Start(ctx context.Context, cfg Config) error {
	s, err := New(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.purgeLoop(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logStartup()

	errCh := make(chan error, 1)
	go func() {
		if cfg.TLS.Enabled {
			errCh <- srv.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			errCh <- srv.ListenAndServe()
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info("shutting down parse service")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	s.hub.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
