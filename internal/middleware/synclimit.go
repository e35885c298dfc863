package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"quotekeeper/internal/ratelimit"
)

// SyncLimiter throttles Kindle imports per user. Must run after AuthSession.
func SyncLimiter(l *ratelimit.Keyed) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !l.Allow(strconv.FormatInt(UserID(c), 10)) {
			return fiber.NewError(fiber.StatusTooManyRequests, "sync rate limit exceeded")
		}
		return c.Next()
	}
}
