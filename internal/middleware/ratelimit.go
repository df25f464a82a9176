package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arhaval/talent-admin/internal/config"
)

// RateLimiter is a process-local token bucket map. It is a best-effort abuse
// deterrent only: each instance enforces its own quota and nothing is shared
// across processes. Buckets refill lazily on access; idle buckets are
// removed by the hourly Sweep.
type RateLimiter struct {
	cfg     config.RateLimitConfig
	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	tokens     int
	lastRefill time.Time
	lastSeen   time.Time
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{cfg: cfg, buckets: make(map[string]*bucket)}
}

// allow takes one token from the key's bucket, refilling first based on the
// time elapsed since the last refill. It returns whether the request may
// proceed, the remaining tokens and a retry hint when blocked.
func (l *RateLimiter) allow(key string, now time.Time) (bool, int, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.cfg.Capacity, lastRefill: now}
		l.buckets[key] = b
	}
	b.lastSeen = now

	if elapsed := now.Sub(b.lastRefill); elapsed >= l.cfg.RefillInterval {
		intervals := int(elapsed / l.cfg.RefillInterval)
		b.tokens = min(l.cfg.Capacity, b.tokens+intervals*l.cfg.RefillTokens)
		b.lastRefill = b.lastRefill.Add(time.Duration(intervals) * l.cfg.RefillInterval)
	}

	if b.tokens > 0 {
		b.tokens--
		return true, b.tokens, 0
	}
	retry := l.cfg.RefillInterval - now.Sub(b.lastRefill)
	if retry < 0 {
		retry = 0
	}
	return false, 0, retry
}

// Sweep drops buckets idle longer than the configured TTL and returns how
// many were removed. Wired to the hourly cron in main.
func (l *RateLimiter) Sweep() int {
	cutoff := time.Now().Add(-l.cfg.IdleTTL)
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for k, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, k)
			n++
		}
	}
	return n
}

// Middleware returns the Echo middleware enforcing the limiter. Disabled
// configuration yields a pass-through.
func (l *RateLimiter) Middleware() echo.MiddlewareFunc {
	if !l.cfg.Enabled {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := l.buildKey(c)
			allowed, remaining, retry := l.allow(key, time.Now())

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(l.cfg.Capacity))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !allowed {
				secs := int(math.Ceil(retry.Seconds()))
				if secs < 0 {
					secs = 0
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

// buildKey composes the bucket key from the configured strategy. The caller
// identifier comes from the resolved identity when a session middleware ran
// earlier in the chain, otherwise "anon".
func (l *RateLimiter) buildKey(c echo.Context) string {
	parts := []string{"rl"}
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	uid := "anon"
	if id, ok := CurrentIdentity(c); ok {
		uid = string(id.Variant) + ":" + strconv.FormatUint(id.ID, 10)
	}
	route := c.Request().Method + " " + c.Path()

	switch strings.ToLower(l.cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "user":
		parts = append(parts, "user", uid)
	case "route":
		parts = append(parts, "route", route)
	case "ip_user":
		parts = append(parts, "ip", ip, "user", uid)
	case "ip_route":
		parts = append(parts, "ip", ip, "route", route)
	case "user_route":
		parts = append(parts, "user", uid, "route", route)
	default:
		parts = append(parts, "ip", ip, "user", uid, "route", route)
	}
	return strings.Join(parts, ":")
}
