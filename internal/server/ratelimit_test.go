package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(60, 2, nil)
	defer rl.Close()

	// Burst capacity admits the first requests, then the bucket is empty
	if !rl.Allow("ip:10.0.0.1") {
		t.Error("expected first request to be allowed")
	}
	if !rl.Allow("ip:10.0.0.1") {
		t.Error("expected second request within burst to be allowed")
	}
	if rl.Allow("ip:10.0.0.1") {
		t.Error("expected third request to exceed burst capacity")
	}

	// Separate keys get separate buckets
	if !rl.Allow("ip:10.0.0.2") {
		t.Error("expected request from different key to be allowed")
	}
}

func TestRateLimiterStats(t *testing.T) {
	rl := NewRateLimiter(120, 5, nil)
	defer rl.Close()

	rl.Allow("api:key-1")
	rl.Allow("ip:10.0.0.1")

	stats := rl.GetStats()
	if stats["active_limiters"] != 2 {
		t.Errorf("expected 2 active limiters, got %v", stats["active_limiters"])
	}
	if stats["rate_per_minute"] != 120.0 {
		t.Errorf("expected 120 requests per minute, got %v", stats["rate_per_minute"])
	}
	if stats["burst_capacity"] != 5 {
		t.Errorf("expected burst capacity 5, got %v", stats["burst_capacity"])
	}
}

func TestGetRateLimitKey(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		byAPIKey bool
		byIP     bool
		expected string
	}{
		{
			name:     "api key header preferred",
			headers:  map[string]string{"X-API-Key": "secret-1"},
			byAPIKey: true,
			byIP:     true,
			expected: "api:secret-1",
		},
		{
			name:     "bearer token used as api key",
			headers:  map[string]string{"Authorization": "Bearer secret-2"},
			byAPIKey: true,
			expected: "api:secret-2",
		},
		{
			name:     "falls back to ip when no api key",
			byAPIKey: true,
			byIP:     true,
			expected: "ip:192.0.2.1",
		},
		{
			name:     "ip only",
			byIP:     true,
			expected: "ip:192.0.2.1",
		},
		{
			name:     "limiting disabled by key type",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/rank", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			if got := getRateLimitKey(r, tt.byAPIKey, tt.byIP); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		expected   string
	}{
		{
			name:       "remote addr",
			remoteAddr: "203.0.113.7:51234",
			expected:   "203.0.113.7",
		},
		{
			name:       "x-forwarded-for first ip",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.4, 10.0.0.1"},
			expected:   "198.51.100.4",
		},
		{
			name:       "x-forwarded-for garbage falls through",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip"},
			expected:   "10.0.0.1",
		},
		{
			name:       "x-real-ip",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Real-IP": "198.51.100.9"},
			expected:   "198.51.100.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/health", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			if got := getClientIP(r); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
