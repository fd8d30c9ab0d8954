package middleware

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"

	"movie-discovery-social-service/internal/metrics"
)

// RateLimiter provides Redis-backed fixed window rate limiting per client IP.
// The counter lives in Redis so every replica shares one budget.
type RateLimiter struct {
	rdb       *redis.Client
	maxReqs   int
	windowSec int
}

// NewRateLimiter creates a rate limiter. A nil client or a non-positive
// limit or window disables limiting.
func NewRateLimiter(rdb *redis.Client, maxReqs, windowSec int) *RateLimiter {
	return &RateLimiter{
		rdb:       rdb,
		maxReqs:   maxReqs,
		windowSec: windowSec,
	}
}

// Handler returns a Fiber middleware handler for rate limiting.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		if rl.rdb == nil || rl.maxReqs <= 0 || rl.windowSec <= 0 {
			return c.Next()
		}

		key := fmt.Sprintf("ratelimit:%s", c.IP())
		ctx := c.Context()

		// The expiry rides in the same transaction as the increment, so a
		// counter can never be left without one.
		var (
			incr   *redis.IntCmd
			ttlCmd *redis.DurationCmd
		)
		_, err := rl.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(ctx, key)
			pipe.ExpireNX(ctx, key, time.Duration(rl.windowSec)*time.Second)
			ttlCmd = pipe.TTL(ctx, key)
			return nil
		})
		if err != nil {
			// fail open
			slog.Warn("rate limiter unavailable", "error", err)
			return c.Next()
		}
		count := incr.Val()
		ttl := ttlCmd.Val()

		c.Set("X-RateLimit-Limit", strconv.Itoa(rl.maxReqs))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(rl.maxReqs)-count), 10))
		c.Set("X-RateLimit-Reset", strconv.Itoa(int(ttl.Seconds())))

		if int(count) > rl.maxReqs {
			metrics.RecordRateLimitRejection()
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "rate limit exceeded",
				"retry_after": int(ttl.Seconds()),
			})
		}

		return c.Next()
	}
}
