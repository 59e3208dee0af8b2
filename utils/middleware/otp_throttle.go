package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/studynotion-api/utils/cache"
	"github.com/sahilchouksey/studynotion-api/utils/response"
)

// OTPThrottle limits how many passcodes can be requested per email address
type OTPThrottle struct {
	redisCache *cache.RedisCache
	limit      int64
	window     time.Duration
}

// NewOTPThrottle creates a throttle allowing limit requests per window
func NewOTPThrottle(redisCache *cache.RedisCache, limit int64, window time.Duration) *OTPThrottle {
	return &OTPThrottle{
		redisCache: redisCache,
		limit:      limit,
		window:     window,
	}
}

// Limit rejects the request with 429 once the email has exhausted its quota
func (t *OTPThrottle) Limit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Email string `json:"email" form:"email"`
		}
		if err := c.BodyParser(&body); err != nil || body.Email == "" {
			// Let the handler report the malformed body
			return c.Next()
		}

		ctx := c.UserContext()
		key := fmt.Sprintf("otp_throttle:%s", strings.ToLower(strings.TrimSpace(body.Email)))

		count, err := t.redisCache.Increment(ctx, key)
		if err != nil {
			return c.Next()
		}
		if count == 1 {
			t.redisCache.Expire(ctx, key, t.window)
		}

		if count > t.limit {
			ttl, _ := t.redisCache.TTL(ctx, key)
			retryAfter := int(ttl.Seconds())
			if retryAfter < 0 {
				retryAfter = int(t.window.Seconds())
			}
			c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%d", retryAfter))
			return response.TooManyRequests(c, "Too many OTP requests. Please try again later")
		}

		return c.Next()
	}
}
