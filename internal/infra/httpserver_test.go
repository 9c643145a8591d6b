package infra

import (
	"net/http"
	"testing"
	"time"
)

func TestNewHTTPServerKeepsWriteTimeoutAboveProviderTimeout(t *testing.T) {
	cfg := &Config{Port: "9090", ProviderTimeout: 60 * time.Second, HTTPWriteTimeout: 30 * time.Second}
	srv := NewHTTPServer(cfg, http.NotFoundHandler())
	if srv.Addr() != ":9090" {
		t.Fatalf("Addr = %q", srv.Addr())
	}
	if srv.server.WriteTimeout != 70*time.Second {
		t.Fatalf("WriteTimeout = %v, want 70s", srv.server.WriteTimeout)
	}

	cfg.HTTPWriteTimeout = 2 * time.Minute
	if got := NewHTTPServer(cfg, http.NotFoundHandler()).server.WriteTimeout; got != 2*time.Minute {
		t.Fatalf("explicit WriteTimeout overridden: %v", got)
	}
}
