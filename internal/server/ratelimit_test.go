package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jobsiftErrors "jobsift/internal/errors"
)

func testLogger(t *testing.T) *jobsiftErrors.Logger {
	t.Helper()
	logger, err := jobsiftErrors.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return logger
}

func TestLimiterManagerAllow(t *testing.T) {
	m := NewRateLimiter(60, time.Minute, 2, testLogger(t))
	defer m.Close()

	// Burst capacity of 2 allows two immediate requests
	if !m.Allow("ip:10.0.0.1") {
		t.Error("first request should be allowed")
	}
	if !m.Allow("ip:10.0.0.1") {
		t.Error("second request should be allowed within burst")
	}
	if m.Allow("ip:10.0.0.1") {
		t.Error("third immediate request should be limited")
	}

	// A different key gets its own bucket
	if !m.Allow("ip:10.0.0.2") {
		t.Error("request from a different key should be allowed")
	}
}

func TestLimiterManagerStats(t *testing.T) {
	m := NewRateLimiter(120, time.Minute, 5, testLogger(t))
	defer m.Close()

	m.Allow("api:key-1")
	m.Allow("ip:10.0.0.1")

	stats := m.GetStats()
	if stats["active_limiters"] != 2 {
		t.Errorf("active_limiters = %v, want 2", stats["active_limiters"])
	}
	if stats["rate_per_minute"] != 120.0 {
		t.Errorf("rate_per_minute = %v, want 120", stats["rate_per_minute"])
	}
	if stats["burst_capacity"] != 5 {
		t.Errorf("burst_capacity = %v, want 5", stats["burst_capacity"])
	}
}

func TestLimiterManagerCleanup(t *testing.T) {
	m := NewRateLimiter(60, time.Minute, 1, testLogger(t))
	defer m.Close()

	m.Allow("ip:10.0.0.1")
	m.cleanup(0) // Evict everything regardless of age

	m.mu.Lock()
	remaining := len(m.limiters)
	m.mu.Unlock()
	if remaining != 0 {
		t.Errorf("limiters after cleanup = %d, want 0", remaining)
	}
}

func TestGetRateLimitKey(t *testing.T) {
	tests := []struct {
		name     string
		header   map[string]string
		byAPIKey bool
		byIP     bool
		want     string
	}{
		{
			name:     "api key header",
			header:   map[string]string{"X-API-Key": "secret-1"},
			byAPIKey: true,
			want:     "api:secret-1",
		},
		{
			name:     "bearer token fallback",
			header:   map[string]string{"Authorization": "Bearer secret-2"},
			byAPIKey: true,
			want:     "api:secret-2",
		},
		{
			name: "ip fallback when no key present",
			byAPIKey: true,
			byIP:     true,
			want:     "ip:192.0.2.1",
		},
		{
			name: "disabled",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/score", nil)
			r.RemoteAddr = "192.0.2.1:4321"
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}

			if got := getRateLimitKey(r, tt.byAPIKey, tt.byIP); got != tt.want {
				t.Errorf("getRateLimitKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{
			name:   "x-forwarded-for first valid ip",
			header: map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"},
			remote: "192.0.2.1:4321",
			want:   "203.0.113.7",
		},
		{
			name:   "x-real-ip",
			header: map[string]string{"X-Real-IP": "203.0.113.8"},
			remote: "192.0.2.1:4321",
			want:   "203.0.113.8",
		},
		{
			name:   "remote addr fallback",
			remote: "192.0.2.1:4321",
			want:   "192.0.2.1",
		},
		{
			name:   "invalid forwarded header ignored",
			header: map[string]string{"X-Forwarded-For": "not-an-ip"},
			remote: "192.0.2.1:4321",
			want:   "192.0.2.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/stats", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}

			if got := getClientIP(r); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	if got := maskAPIKey("short"); got != "****" {
		t.Errorf("maskAPIKey(short) = %q", got)
	}
	if got := maskAPIKey("0123456789abcdef"); got != "01234567****" {
		t.Errorf("maskAPIKey(long) = %q", got)
	}
}
