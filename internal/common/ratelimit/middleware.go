package ratelimit

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
)

// HTTPMiddleware rejects requests over the limit with 429 and a JSON error
// body. keyFunc selects the bucket; an empty key uses the global bucket.
func HTTPMiddleware(limiter Limiter, keyFunc func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)

			var allowed bool
			if key == "" {
				allowed = limiter.TryAcquire()
			} else {
				allowed = limiter.TryAcquireForKey(key)
			}

			if !allowed {
				if rps, ok := limiter.Stats()["requests_per_second"].(int); ok {
					w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rps))
					w.Header().Set("X-RateLimit-Remaining", "0")
				}
				w.Header().Set("Retry-After", "1")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// IPKey keys on the connection's remote address without its port. Client
// supplied headers are ignored.
func IPKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// ForwardedIPKey prefers the first X-Forwarded-For entry, then X-Real-IP,
// then the remote address. Only use it behind a proxy that overwrites
// those headers.
func ForwardedIPKey(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return IPKey(r)
}

// KeyFunc picks ForwardedIPKey when proxy headers are trusted, IPKey otherwise.
func KeyFunc(trustProxy bool) func(*http.Request) string {
	if trustProxy {
		return ForwardedIPKey
	}
	return IPKey
}
