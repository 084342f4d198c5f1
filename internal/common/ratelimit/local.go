package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is the interface the HTTP middleware depends on
type Limiter interface {
	TryAcquire() bool
	TryAcquireForKey(key string) bool
	Stats() map[string]interface{}
}

// LocalLimiter implements rate limiting using golang.org/x/time/rate
type LocalLimiter struct {
	mu       sync.Mutex
	config   Config
	limiters map[string]*limiterEntry

	// Global limiter for non-keyed operations
	globalLimiter *rate.Limiter

	lastCleanup time.Time
	now         func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// NewLocalLimiter creates a new local rate limiter
func NewLocalLimiter(config Config) (*LocalLimiter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &LocalLimiter{
		config:        config,
		limiters:      make(map[string]*limiterEntry),
		globalLimiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.BurstSize),
		lastCleanup:   time.Now(),
		now:           time.Now,
	}, nil
}

// NewLocal creates an enabled local limiter with default cleanup settings
func NewLocal(requestsPerSecond, burstSize int) (*LocalLimiter, error) {
	config := DefaultConfig()
	config.RequestsPerSecond = requestsPerSecond
	config.BurstSize = burstSize
	return NewLocalLimiter(config)
}

// TryAcquire attempts to acquire a token from the global bucket without blocking
func (rl *LocalLimiter) TryAcquire() bool {
	if !rl.config.Enabled {
		return true
	}
	return rl.globalLimiter.AllowN(rl.now(), 1)
}

// TryAcquireForKey attempts to acquire a token for a specific key
func (rl *LocalLimiter) TryAcquireForKey(key string) bool {
	if !rl.config.Enabled {
		return true
	}
	now := rl.now()
	return rl.getLimiterForKey(key, now).AllowN(now, 1)
}

func (rl *LocalLimiter) getLimiterForKey(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastCleanup) > rl.config.CleanupPeriod {
		rl.cleanup(now)
	}

	entry, exists := rl.limiters[key]
	if !exists {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.BurstSize),
		}
		rl.limiters[key] = entry
	}
	entry.lastUsed = now

	if len(rl.limiters) > rl.config.MaxKeys {
		rl.cleanup(now)
		for len(rl.limiters) > rl.config.MaxKeys && len(rl.limiters) > 1 {
			rl.evictOldest(key)
		}
	}

	return entry.limiter
}

// evictOldest drops the least recently used bucket other than keep
func (rl *LocalLimiter) evictOldest(keep string) {
	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)
	for key, entry := range rl.limiters {
		if key == keep {
			continue
		}
		if !found || entry.lastUsed.Before(oldest) {
			oldestKey, oldest, found = key, entry.lastUsed, true
		}
	}
	delete(rl.limiters, oldestKey)
}

// cleanup removes buckets that haven't been used within CleanupPeriod
func (rl *LocalLimiter) cleanup(now time.Time) {
	cutoff := now.Add(-rl.config.CleanupPeriod)

	for key, entry := range rl.limiters {
		if entry.lastUsed.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}

	rl.lastCleanup = now
}

// Stats returns limiter settings and the number of tracked keys
func (rl *LocalLimiter) Stats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]interface{}{
		"type":                "local",
		"enabled":             rl.config.Enabled,
		"requests_per_second": rl.config.RequestsPerSecond,
		"burst_size":          rl.config.BurstSize,
		"active_keys":         len(rl.limiters),
	}
}
