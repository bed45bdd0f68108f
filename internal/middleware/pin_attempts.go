package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const pinAttemptPrefix = "launcher:pin_failures:"

// PINAttemptLimit locks a username out of PIN unlock for window after
// maxFailures rejected PINs. Each attempt reserves a slot with an atomic
// INCR before the PIN is checked, so parallel guesses share one budget.
// A successful unlock clears the counter and attempts that were not PIN
// rejections give their slot back. maxFailures <= 0 or a nil cache disables
// the policy, and cache errors fail open.
func PINAttemptLimit(cache *redis.Client, maxFailures int, window time.Duration, logger *slog.Logger) fiber.Handler {
	if window <= 0 {
		window = time.Minute
	}
	return func(c *fiber.Ctx) error {
		if cache == nil || maxFailures <= 0 {
			return c.Next()
		}
		var req struct {
			Username string `json:"username"`
		}
		_ = c.BodyParser(&req)
		username := strings.TrimSpace(req.Username)
		if username == "" {
			return c.Next()
		}
		key := pinAttemptPrefix + username

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		// The window starts at the first attempt; EXPIRE NX never extends it
		// and heals a counter left without a TTL.
		var incr *redis.IntCmd
		_, err := cache.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(ctx, key)
			pipe.ExpireNX(ctx, key, window)
			return nil
		})
		if err != nil {
			logger.Warn("pin attempt reservation failed", slog.String("username", username), slog.Any("error", err))
			return c.Next()
		}
		if incr.Val() > int64(maxFailures) {
			if ttl, err := cache.TTL(ctx, key).Result(); err == nil && ttl > 0 {
				c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(ttl.Round(time.Second).Seconds())))
			}
			return fiber.NewError(http.StatusTooManyRequests, "too many PIN attempts, try again later")
		}

		handlerErr := c.Next()
		status := c.Response().StatusCode()
		if fe, ok := handlerErr.(*fiber.Error); ok {
			status = fe.Code
		}

		switch status {
		case http.StatusUnauthorized:
			// The reserved slot stays counted as a failure.
		case http.StatusOK:
			if err := cache.Del(ctx, key).Err(); err != nil {
				logger.Warn("pin attempt reset failed", slog.String("username", username), slog.Any("error", err))
			}
		default:
			if err := cache.Decr(ctx, key).Err(); err != nil {
				logger.Warn("pin attempt release failed", slog.String("username", username), slog.Any("error", err))
			}
		}
		return handlerErr
	}
}
