package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cdzombak/httpwatch/internal/logging"
)

func TestServer_HealthzOK(t *testing.T) {
	logger := logging.NewLoggerWithWriter(io.Discard, "text", "info")
	srv := NewServer("127.0.0.1:0", logger)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	srv.server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "ok\n" {
		t.Fatalf("body = %q, want %q", rec.Body.String(), "ok\n")
	}
}

func TestServer_MetricsEndpointServed(t *testing.T) {
	logger := logging.NewLoggerWithWriter(io.Discard, "text", "info")
	srv := NewServer("127.0.0.1:0", logger)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	srv.server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestServer_StartAndShutdown(t *testing.T) {
	logger := logging.NewLoggerWithWriter(io.Discard, "text", "info")
	srv := NewServer("127.0.0.1:0", logger)

	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}
