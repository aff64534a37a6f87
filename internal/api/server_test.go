package api

import (
	"context"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"negative port", func(c *Config) { c.Port = -1 }, true},
		{"port too large", func(c *Config) { c.Port = 70000 }, true},
		{"zero max bytes", func(c *Config) { c.MaxQueryBytes = 0 }, true},
		{"negative ttl", func(c *Config) { c.CacheTTL = -time.Second }, true},
		{"tls without files", func(c *Config) { c.TLS.Enabled = true }, true},
		{"auth without key", func(c *Config) { c.Auth.Enabled = true }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxQueryBytes = -1
	if _, err := New(cfg); err == nil {
		t.Error("New accepted an invalid config")
	}
}

func TestStartReturnsConfigError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Auth.Enabled = true
	if err := Start(context.Background(), cfg); err == nil {
		t.Error("Start accepted an invalid config")
	}
}

func TestStartShutsDownOnCancel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = 0 // any free port

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- Start(ctx, cfg) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Start() = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestPurgeLoopStops(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.CacheTTL = time.Millisecond })
	if _, _, err := s.cache.Parse("RETURN 1"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.purgeLoop(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for s.cache.Stats().Entries != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if n := s.cache.Stats().Entries; n != 0 {
		t.Errorf("purge left %d entries", n)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("purgeLoop did not stop")
	}
}
