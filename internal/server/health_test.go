package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/teemow/todofewer/internal/msauth"
)

func newTestHealthChecker(t *testing.T) (*HealthChecker, *ServerContext) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	sc, err := NewServerContext(context.Background(), msauth.Config{ClientID: "client-id"})
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })

	return NewHealthChecker(sc), sc
}

func TestHealthChecker_Liveness(t *testing.T) {
	h, _ := newTestHealthChecker(t)

	rec := httptest.NewRecorder()
	h.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("liveness status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Status != healthStatusOK {
		t.Errorf("liveness body status = %q, want %q", resp.Status, healthStatusOK)
	}
}

func TestHealthChecker_Readiness(t *testing.T) {
	h, _ := newTestHealthChecker(t)

	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("readiness status = %d, want %d", rec.Code, http.StatusOK)
	}

	// A missing default-account token is reported but does not fail readiness
	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Checks["default_account"] != healthStatusNoToken {
		t.Errorf("default_account check = %q, want %q", resp.Checks["default_account"], healthStatusNoToken)
	}

	// Not ready once marked
	h.SetReady(false)
	rec = httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("readiness status after SetReady(false) = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestHealthChecker_ReadinessWithToken(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	store, err := msauth.NewFileStore(msauth.DefaultAccount)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if err := store.Save(&msauth.Token{AccessToken: "token", RefreshToken: "refresh"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	sc, err := NewServerContext(context.Background(), msauth.Config{ClientID: "client-id"})
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })

	rec := httptest.NewRecorder()
	NewHealthChecker(sc).ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("readiness status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Checks["default_account"] != healthStatusOK {
		t.Errorf("default_account check = %q, want %q", resp.Checks["default_account"], healthStatusOK)
	}
}

func TestHealthChecker_ReadinessAfterShutdown(t *testing.T) {
	h, sc := newTestHealthChecker(t)

	if err := sc.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("readiness status after shutdown = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Checks["shutdown"] != healthStatusShuttingDown {
		t.Errorf("shutdown check = %q, want %q", resp.Checks["shutdown"], healthStatusShuttingDown)
	}
}

func TestHealthChecker_DetailedHandler(t *testing.T) {
	h, _ := newTestHealthChecker(t)

	rec := httptest.NewRecorder()
	h.DetailedHealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("detailed status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp DetailedHealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Uptime == "" {
		t.Error("detailed response missing uptime")
	}
	if resp.Checks["default_account"] != healthStatusNoToken {
		t.Errorf("default_account check = %q, want %q", resp.Checks["default_account"], healthStatusNoToken)
	}
}
