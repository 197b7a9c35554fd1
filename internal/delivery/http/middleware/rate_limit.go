package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go-profile-backend/internal/delivery/http/response"
	"go-profile-backend/pkg/logger"
	"go-profile-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Key prefix for Redis
	KeyPrefix string
	// Custom key extractor (default: client IP)
	KeyFunc func(*gin.Context) string
	// Reject instead of falling back to memory when Redis errors
	FailClosed bool
}

func DefaultRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:ip:",
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// counter increments a fixed-window counter and reports the count so far and
// the time left in the window.
type counter interface {
	incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// INCR with TTL set on the first hit of a window.
// Returns: [current_count, ttl_seconds]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

var rateLimitScript = goredis.NewScript(rateLimitLuaScript)

type redisCounter struct {
	client *goredis.Client
}

func (r *redisCounter) incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	res, err := rateLimitScript.Run(ctx, r.client, []string{key}, int(window.Seconds())).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	return res[0], time.Duration(res[1]) * time.Second, nil
}

type memoryEntry struct {
	count   int64
	resetAt time.Time
}

type memoryCounter struct {
	mu        sync.Mutex
	entries   map[string]*memoryEntry
	lastSweep time.Time
}

func newMemoryCounter() *memoryCounter {
	return &memoryCounter{entries: make(map[string]*memoryEntry)}
}

func (m *memoryCounter) incr(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastSweep) > window {
		for k, e := range m.entries {
			if now.After(e.resetAt) {
				delete(m.entries, k)
			}
		}
		m.lastSweep = now
	}

	e, ok := m.entries[key]
	if !ok || now.After(e.resetAt) {
		e = &memoryEntry{resetAt: now.Add(window)}
		m.entries[key] = e
	}
	e.count++
	return e.count, e.resetAt.Sub(now), nil
}

// RateLimit allows cfg.Limit requests per key per window. Counts live in
// Redis when client is non-nil, in process memory otherwise.
func RateLimit(cfg RateLimitConfig, client *goredis.Client) gin.HandlerFunc {
	memory := newMemoryCounter()
	var primary counter = memory
	if client != nil {
		primary = &redisCounter{client: client}
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	return func(c *gin.Context) {
		key := cfg.KeyPrefix + cfg.KeyFunc(c)

		count, ttl, err := primary.incr(c.Request.Context(), key, cfg.Window)
		if err != nil {
			logger.Log.Warn("Rate limit store unavailable", "error", err)
			if cfg.FailClosed {
				response.Message(c, http.StatusServiceUnavailable, "Service temporarily unavailable")
				c.Abort()
				return
			}
			count, ttl, _ = memory.incr(c.Request.Context(), key, cfg.Window)
		}

		remaining := int64(cfg.Limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(cfg.Limit) {
			retryAfter := int(ttl.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			security.Default().Log(security.Event{
				Type:      security.EventRateLimitTriggered,
				IP:        c.ClientIP(),
				UserAgent: c.Request.UserAgent(),
				RequestID: c.GetString(RequestIDKey),
				Path:      c.Request.URL.Path,
			})
			response.Message(c, http.StatusTooManyRequests, "Too many requests, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
