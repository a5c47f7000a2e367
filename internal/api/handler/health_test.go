package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestHealthHandler_Root(t *testing.T) {
	c, rec := newJSONContext(http.MethodGet, "/", "")
	if err := NewHealthHandler(nil).Root(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if resp := decodeBody(t, rec); resp["message"] != "API de Clientes do BluePay está funcionando!" {
		t.Errorf("unexpected body: %v", resp)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := PingFunc(func(ctx context.Context) error { return nil })
	down := PingFunc(func(ctx context.Context) error { return errors.New("dial tcp: refused") })

	c, rec := newJSONContext(http.MethodGet, "/health/ready", "")
	_ = NewHealthHandler(map[string]Pinger{"postgres": ok}).Readiness(c)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, rec = newJSONContext(http.MethodGet, "/health/ready", "")
	_ = NewHealthHandler(map[string]Pinger{"postgres": ok, "redis": down}).Readiness(c)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	deps, _ := resp["dependencies"].(map[string]any)
	redis, _ := deps["redis"].(map[string]any)
	if resp["status"] != "degraded" || redis["status"] != "unhealthy" {
		t.Errorf("unexpected body: %v", resp)
	}
}
