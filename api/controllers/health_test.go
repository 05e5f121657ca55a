package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nyxoasis/oasis-backend/pkg/config"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error {
	return s.err
}

func TestHealthLive(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.App.Env = config.AppEnvDev
	handler := HealthLive(cfg)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-NyxOasis-Env"); got != config.AppEnvDev {
		t.Fatalf("unexpected env header: %q", got)
	}
}

func TestHealthReadyAllUp(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.App.Env = config.AppEnvDev
	handler := HealthReady(cfg, nil, stubPinger{}, stubPinger{})

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestHealthReadyDatabaseDown(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.App.Env = config.AppEnvDev
	handler := HealthReady(cfg, nil, stubPinger{err: errors.New("dial refused")}, stubPinger{})

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestHealthReadyRedisDown(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.App.Env = config.AppEnvDev
	handler := HealthReady(cfg, nil, stubPinger{}, stubPinger{err: errors.New("dial refused")})

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}
