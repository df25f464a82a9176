package config

import "time"

// RateLimitConfig tunes the in-process token-bucket limiter. The limiter is
// a best-effort abuse deterrent: each instance enforces its own quota and no
// state is shared across processes.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	IdleTTL        time.Duration // buckets untouched this long are swept
	KeyStrategy    string        // ip | user | route | ip_user | ip_route | user_route | ip_user_route
}

// LoadRateLimitConfig reads RATE_LIMIT_* environment variables, clamping
// nonsense values to safe minimums.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("RATE_LIMIT_CAPACITY", 60),
		RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		IdleTTL:        envDur("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    envStr("RATE_LIMIT_KEY_STRATEGY", "ip_user_route"),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if min := 5 * cfg.RefillInterval; cfg.IdleTTL < min {
		cfg.IdleTTL = min
	}
	return cfg
}
