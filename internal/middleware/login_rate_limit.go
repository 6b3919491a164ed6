package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// LoginRateLimit limits login attempts per identity or IP using Redis.
// Without a Redis client there is nothing to count against, so it returns
// nil and callers skip mounting it.
func LoginRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if cache == nil {
		return nil
	}
	if maxPerMin <= 0 {
		maxPerMin = 5
	}
	return func(c *fiber.Ctx) error {
		var req struct {
			Identity string `json:"identity"`
		}
		_ = c.BodyParser(&req)
		identity := strings.TrimSpace(req.Identity)
		if identity == "" {
			identity = c.IP()
		}
		key := "rl:login:" + identity
		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err == nil && cnt == 1 {
			cache.Expire(c.UserContext(), key, time.Minute)
		}
		if err != nil {
			return c.Next() // fail-open on cache errors
		}
		if cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "too many login attempts, try again later")
		}
		return c.Next()
	}
}
