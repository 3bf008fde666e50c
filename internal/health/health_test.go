package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandler_AllHealthy(t *testing.T) {
	handler := NewHandler("test")
	handler.Register("postgres", func() error { return nil })

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	var response Response
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Status != StatusHealthy {
		t.Fatalf("expected healthy status, got %s", response.Status)
	}
	if response.Checks["postgres"].Status != StatusHealthy {
		t.Fatalf("expected healthy postgres check, got %+v", response.Checks["postgres"])
	}
}

func TestHandler_Unhealthy(t *testing.T) {
	handler := NewHandler("test")
	handler.Register("postgres", func() error { return errors.New("connection refused") })
	handler.Register("kafka", func() error { return nil })

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", recorder.Code)
	}

	var response Response
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Status != StatusUnhealthy {
		t.Fatalf("expected unhealthy status, got %s", response.Status)
	}
	if response.Checks["postgres"].Message != "connection refused" {
		t.Fatalf("expected check message, got %+v", response.Checks["postgres"])
	}
	if response.Checks["kafka"].Status != StatusHealthy {
		t.Fatalf("expected healthy kafka check, got %+v", response.Checks["kafka"])
	}
}

func TestHandler_NoChecks(t *testing.T) {
	handler := NewHandler("test")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 without checks, got %d", recorder.Code)
	}
}

func TestLivenessHandler(t *testing.T) {
	recorder := httptest.NewRecorder()
	LivenessHandler(recorder, httptest.NewRequest(http.MethodGet, "/livez", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if recorder.Body.String() != "ok" {
		t.Fatalf("unexpected body: %q", recorder.Body.String())
	}
}
