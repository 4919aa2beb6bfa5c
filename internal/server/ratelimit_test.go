package server

import (
	"net/http/httptest"
	"testing"
	"time"

	"resumeai/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLimiterManager(t *testing.T) {
	m := NewRateLimiter(config.RateLimitConfig{RequestsPerMin: 60, BurstCapacity: 2, Window: time.Minute}, nil)
	defer m.Close()

	assert.True(t, m.Allow("ip:1"))
	assert.True(t, m.Allow("ip:1"))
	assert.False(t, m.Allow("ip:1"))
	assert.True(t, m.Allow("ip:2"))

	stats := m.GetStats()
	assert.Equal(t, 2, stats["active_limiters"])
	assert.Equal(t, int64(1), stats["rejected_requests"])
	assert.InDelta(t, 60.0, stats["rate_per_minute"], 0.001)
	assert.Equal(t, "10m0s", stats["eviction_after"])
	assert.Equal(t, 1, m.retryAfter())

	m.Close()
}

func TestLimiterCleanup(t *testing.T) {
	m := NewRateLimiter(config.RateLimitConfig{RequestsPerMin: 60, BurstCapacity: 1}, nil)
	defer m.Close()

	m.GetLimiter("a")
	m.mu.Lock()
	m.lastSeen["a"] = time.Now().Add(-time.Hour)
	m.mu.Unlock()
	m.GetLimiter("b")

	m.cleanup(30 * time.Minute)
	assert.Equal(t, 1, m.GetStats()["active_limiters"])
}

func TestGetRateLimitKey(t *testing.T) {
	r := httptest.NewRequest("POST", "/optimize", nil)
	r.RemoteAddr = "192.0.2.7:4411"

	key, typ := getRateLimitKey(r, true, true)
	assert.Equal(t, "ip:192.0.2.7", key)
	assert.Equal(t, "ip", typ)

	r.Header.Set("X-API-Key", "k1")
	key, typ = getRateLimitKey(r, true, true)
	assert.Equal(t, "api:k1", key)
	assert.Equal(t, "api_key", typ)

	key, _ = getRateLimitKey(r, false, false)
	assert.Empty(t, key)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "192.0.2.1:1234", "192.0.2.1"},
		{"forwarded", map[string]string{"X-Forwarded-For": "garbage, 10.1.1.1, 10.2.2.2"}, "192.0.2.1:1", "10.1.1.1"},
		{"real ip", map[string]string{"X-Real-IP": "10.3.3.3"}, "192.0.2.1:1", "10.3.3.3"},
		{"invalid real ip", map[string]string{"X-Real-IP": "nope"}, "192.0.2.1:1", "192.0.2.1"},
		{"no port", nil, "192.0.2.5", "192.0.2.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(r))
		})
	}
}
