package app

import (
	"interactions-relay/internal/common/logging"
	"interactions-relay/internal/common/ratelimit"
	"interactions-relay/internal/config"
)

// InitializeRateLimiter creates the per client IP ingress limiter, or nil
// when rate limiting is disabled.
func InitializeRateLimiter(cfg *config.Config, logger logging.Logger) ratelimit.Limiter {
	if !cfg.RateLimitEnabled {
		return nil
	}

	limiter, err := ratelimit.NewLocalLimiter(ratelimit.Config{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
		Enabled:           true,
	})
	if err != nil {
		logger.Warn("Invalid rate limit settings, ingress limiting disabled", logging.Err(err))
		return nil
	}

	logger.Info("Ingress rate limiting enabled",
		logging.Int("requests_per_second", cfg.RateLimitRPS),
		logging.Int("burst", cfg.RateLimitBurst),
	)
	return limiter
}
