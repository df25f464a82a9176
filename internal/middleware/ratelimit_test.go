package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/arhaval/talent-admin/internal/config"
)

func testLimiterConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Second,
		IdleTTL:        time.Minute,
		KeyStrategy:    "ip",
	}
}

func TestRateLimiterBlocksWhenDrained(t *testing.T) {
	l := NewRateLimiter(testLimiterConfig())
	now := time.Now()

	ok, _, _ := l.allow("k", now)
	assert.True(t, ok)
	ok, remaining, _ := l.allow("k", now)
	assert.True(t, ok)
	assert.Equal(t, 0, remaining)

	ok, _, retry := l.allow("k", now)
	assert.False(t, ok)
	assert.Greater(t, retry, time.Duration(0))
}

func TestRateLimiterRefills(t *testing.T) {
	l := NewRateLimiter(testLimiterConfig())
	now := time.Now()

	l.allow("k", now)
	l.allow("k", now)
	ok, _, _ := l.allow("k", now)
	assert.False(t, ok)

	ok, _, _ = l.allow("k", now.Add(1500*time.Millisecond))
	assert.True(t, ok)
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	l := NewRateLimiter(testLimiterConfig())
	now := time.Now()

	l.allow("a", now)
	l.allow("a", now)
	ok, _, _ := l.allow("a", now)
	assert.False(t, ok)

	ok, _, _ = l.allow("b", now)
	assert.True(t, ok)
}

func TestRateLimiterSweepDropsIdleBuckets(t *testing.T) {
	cfg := testLimiterConfig()
	cfg.IdleTTL = time.Millisecond
	l := NewRateLimiter(cfg)

	l.allow("stale", time.Now().Add(-time.Minute))
	l.allow("fresh", time.Now().Add(time.Minute))

	assert.Equal(t, 1, l.Sweep())
}
