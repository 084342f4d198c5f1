package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLimiter(t *testing.T) {
	limiter, err := NewLocalLimiter(Config{RequestsPerSecond: 10, BurstSize: 5, Enabled: true})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.TryAcquire(), "request %d should be allowed", i)
	}
	assert.False(t, limiter.TryAcquire(), "burst exhausted")
}

func TestLocalLimiterKeyBased(t *testing.T) {
	limiter, err := NewLocal(1, 2)
	require.NoError(t, err)

	assert.True(t, limiter.TryAcquireForKey("10.0.0.1"))
	assert.True(t, limiter.TryAcquireForKey("10.0.0.1"))
	assert.False(t, limiter.TryAcquireForKey("10.0.0.1"))

	// Another key has its own bucket
	assert.True(t, limiter.TryAcquireForKey("10.0.0.2"))
	assert.Equal(t, 2, limiter.Stats()["active_keys"])
}

func TestLocalLimiterDisabled(t *testing.T) {
	limiter, err := NewLocalLimiter(Config{Enabled: false})
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		assert.True(t, limiter.TryAcquire())
		assert.True(t, limiter.TryAcquireForKey("k"))
	}
}

func TestLocalLimiterCleanup(t *testing.T) {
	limiter, err := NewLocalLimiter(Config{RequestsPerSecond: 1, BurstSize: 1, Enabled: true, CleanupPeriod: time.Minute})
	require.NoError(t, err)

	now := time.Now()
	limiter.now = func() time.Time { return now }
	limiter.TryAcquireForKey("stale")

	now = now.Add(2 * time.Minute)
	limiter.TryAcquireForKey("fresh")

	assert.Equal(t, 1, limiter.Stats()["active_keys"])
}

func TestLocalLimiterEvictsOldestOverMaxKeys(t *testing.T) {
	limiter, err := NewLocalLimiter(Config{RequestsPerSecond: 1, BurstSize: 1, Enabled: true, MaxKeys: 2, CleanupPeriod: time.Hour})
	require.NoError(t, err)

	now := time.Now()
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.TryAcquireForKey("a"))
	now = now.Add(time.Second)
	assert.True(t, limiter.TryAcquireForKey("b"))
	now = now.Add(time.Second)
	assert.True(t, limiter.TryAcquireForKey("c"))

	assert.Equal(t, 2, limiter.Stats()["active_keys"])
	assert.NotContains(t, limiter.limiters, "a")
	assert.Contains(t, limiter.limiters, "b")
	assert.Contains(t, limiter.limiters, "c")
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Enabled: true}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.RequestsPerSecond)
	assert.Equal(t, 10, cfg.BurstSize)
	assert.Equal(t, 10000, cfg.MaxKeys)
	assert.Equal(t, 5*time.Minute, cfg.CleanupPeriod)

	bad := Config{Enabled: true, RequestsPerSecond: -1}
	assert.Error(t, bad.Validate())

	disabled := Config{RequestsPerSecond: -1}
	assert.NoError(t, disabled.Validate())
}

func TestHTTPMiddleware(t *testing.T) {
	limiter, err := NewLocal(1, 1)
	require.NoError(t, err)

	handler := HTTPMiddleware(limiter, IPKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/interactions", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send("192.0.2.1:1234").Code)

	limited := send("192.0.2.1:5678")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "application/json", limited.Header().Get("Content-Type"))
	assert.Equal(t, "1", limited.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, limited.Body.String())

	assert.Equal(t, http.StatusOK, send("192.0.2.2:1234").Code)
}

func TestIPKey(t *testing.T) {
	tests := []struct {
		name      string
		headers   map[string]string
		remote    string
		want      string
		forwarded string
	}{
		{"remote ipv4", nil, "192.0.2.1:1234", "192.0.2.1", "192.0.2.1"},
		{"remote ipv6", nil, "[2001:db8::1]:443", "2001:db8::1", "2001:db8::1"},
		{"remote without port", nil, "192.0.2.1", "192.0.2.1", "192.0.2.1"},
		{"forwarded for", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.1:80", "10.0.0.1", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "203.0.113.9"}, "10.0.0.1:80", "10.0.0.1", "203.0.113.9"},
		{"empty forwarded entry", map[string]string{"X-Forwarded-For": " , 10.0.0.1"}, "10.0.0.2:80", "10.0.0.2", "10.0.0.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, IPKey(req))
			assert.Equal(t, tt.want, KeyFunc(false)(req))
			assert.Equal(t, tt.forwarded, ForwardedIPKey(req))
			assert.Equal(t, tt.forwarded, KeyFunc(true)(req))
		})
	}
}

func TestHTTPMiddleware_IgnoresSpoofedForwardedFor(t *testing.T) {
	limiter, err := NewLocal(1, 1)
	require.NoError(t, err)

	handler := HTTPMiddleware(limiter, KeyFunc(false))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for _, spoofed := range []string{"198.51.100.1", "198.51.100.2", "198.51.100.3"} {
		req := httptest.NewRequest(http.MethodPost, "/interactions", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		req.Header.Set("X-Forwarded-For", spoofed)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 1, limiter.Stats()["active_keys"])
}
