package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"jobsift/internal/config"
)

func newTestServer(t *testing.T, apiKeys []string) *Server {
	t.Helper()
	return NewServer(&config.Config{}, ServerConfig{
		Host:           "localhost",
		Port:           "0",
		Version:        "test",
		APIKeys:        apiKeys,
		MaxRequestSize: 1024,
	}, testLogger(t))
}

func TestAuthMiddleware(t *testing.T) {
	okHandler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	tests := []struct {
		name       string
		apiKeys    []string
		header     map[string]string
		wantStatus int
	}{
		{
			name:       "no keys configured skips auth",
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid x-api-key",
			apiKeys:    []string{"secret-1"},
			header:     map[string]string{"X-API-Key": "secret-1"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid bearer token",
			apiKeys:    []string{"secret-1"},
			header:     map[string]string{"Authorization": "Bearer secret-1"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing key",
			apiKeys:    []string{"secret-1"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong key",
			apiKeys:    []string{"secret-1"},
			header:     map[string]string{"X-API-Key": "wrong"},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.apiKeys)
			handler := s.authMiddleware(okHandler)

			r := httptest.NewRequest(http.MethodPost, "/score", nil)
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			w := httptest.NewRecorder()

			handler(w, r)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestStatsHandler(t *testing.T) {
	s := newTestServer(t, nil)

	r := httptest.NewRequest(http.MethodGet, "/stats", nil)
	w := httptest.NewRecorder()
	s.statsHandler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["service"] != "jobsift" {
		t.Errorf("service = %v, want jobsift", body["service"])
	}
	if rl, ok := body["rate_limiting"].(map[string]any); !ok || rl["enabled"] != false {
		t.Errorf("rate_limiting = %v, want disabled", body["rate_limiting"])
	}
}

func TestStatsHandlerMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, nil)

	r := httptest.NewRequest(http.MethodPost, "/stats", nil)
	w := httptest.NewRecorder()
	s.statsHandler(w, r)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestParseJSONRequest(t *testing.T) {
	t.Run("rejects wrong content type", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/score", nil)
		r.Header.Set("Content-Type", "text/plain")

		var req ScoreRequest
		if err := parseJSONRequest(r, &req); err == nil {
			t.Error("expected content-type error")
		}
	})

	t.Run("parses valid body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/score",
			jsonBody(t, map[string]string{"message": "hiring interns"}))
		r.Header.Set("Content-Type", "application/json")

		var req ScoreRequest
		if err := parseJSONRequest(r, &req); err != nil {
			t.Fatalf("parseJSONRequest() error = %v", err)
		}
		if req.Message != "hiring interns" {
			t.Errorf("message = %q", req.Message)
		}
	})
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		t.Fatalf("failed to encode body: %v", err)
	}
	return &buf
}
