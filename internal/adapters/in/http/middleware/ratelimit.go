package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/logilab/onyxia-composer/internal/boundaries/out"
)

// RateLimit enforces a global bucket and one bucket per client IP. Either
// limiter may be nil to skip that check.
func RateLimit(global, perIP out.RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if global != nil && !global.Allow(ctx, "global") {
				return tooManyRequests(c)
			}
			if perIP != nil && !perIP.Allow(ctx, "ip:"+c.RealIP()) {
				return tooManyRequests(c)
			}
			return next(c)
		}
	}
}

func tooManyRequests(c echo.Context) error {
	c.Response().Header().Set("Retry-After", "1")
	return c.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
}
