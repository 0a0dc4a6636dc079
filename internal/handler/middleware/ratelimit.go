package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"campus-booking/internal/handler/httperr"
	"campus-booking/internal/pkg/clock"
	"campus-booking/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

var errRateLimited = errors.New("rate limit exceeded")

// Refills one token per interval up to capacity. Returns
// {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local interval_ms = tonumber(ARGV[3])
local ttl_seconds = tonumber(ARGV[4])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

if interval_ms > 0 then
	local elapsed = math.max(0, now_ms - last_refill)
	local intervals = math.floor(elapsed / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + intervals)
		last_refill = last_refill + (intervals * interval_ms)
	end
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)

return { allowed, tokens, retry_after_ms }
`)

// RateLimiter guards submission routes with a per-user token bucket held in
// Redis. A nil client disables it, and Redis errors let the request through.
type RateLimiter struct {
	rdb   redis.Scripter
	cfg   config.RateLimitConfig
	clock clock.Clock
}

func NewRateLimiter(rdb redis.Scripter, cfg config.RateLimitConfig, clk clock.Clock) *RateLimiter {
	return &RateLimiter{rdb: rdb, cfg: cfg, clock: clk}
}

func (l *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.rdb == nil || l.cfg.Capacity <= 0 {
			c.Next()
			return
		}

		key := l.key(c)
		ttl := int64(math.Ceil((l.cfg.RefillInterval * time.Duration(l.cfg.Capacity)).Seconds())) + 1
		vals, err := tokenBucketScript.Run(c.Request.Context(), l.rdb, []string{key},
			l.clock.Now().UnixMilli(),
			l.cfg.Capacity,
			l.cfg.RefillInterval.Milliseconds(),
			ttl,
		).Int64Slice()
		if err != nil || len(vals) != 3 {
			slog.Warn("rate limiter unavailable, allowing request", "key", key, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(l.cfg.Capacity))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(vals[1], 10))

		if vals[0] != 1 {
			secs := int64(math.Ceil(float64(vals[2]) / 1000.0))
			c.Header("Retry-After", strconv.FormatInt(secs, 10))
			httperr.AbortWithCode(c, http.StatusTooManyRequests, errRateLimited,
				"RATE_LIMITED", "Too many requests", gin.H{"retryAfter": secs})
			return
		}

		c.Next()
	}
}

func (l *RateLimiter) key(c *gin.Context) string {
	if id, ok := GetUserID(c); ok {
		return fmt.Sprintf("rate_limit:user:%s:%s", id, c.FullPath())
	}
	return fmt.Sprintf("rate_limit:ip:%s:%s", c.ClientIP(), c.FullPath())
}
