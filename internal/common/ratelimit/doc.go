// Package ratelimit provides in-memory ingress rate limiting built on
// golang.org/x/time/rate.
//
// # Basic Usage
//
//	limiter, err := ratelimit.NewLocal(50, 100) // 50 RPS, burst of 100
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	router.Use(ratelimit.HTTPMiddleware(limiter, ratelimit.IPKey))
//
// Keys get their own token bucket. Buckets unused for CleanupPeriod are
// evicted lazily so memory stays bounded by MaxKeys.
package ratelimit
