package ratelimit

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ZanzyTHEbar/travel-type-quiz/internal/errors"
)

// loginRate bounds admin login attempts per client IP
var loginRate = Rate{Limit: 10, Period: time.Minute}

// SubmissionRateLimitMiddleware limits quiz submissions per client IP.
func (rl *RateLimiter) SubmissionRateLimitMiddleware() gin.HandlerFunc {
	return rl.Middleware("submit", Rate{Limit: rl.config.SubmissionsPerMin, Period: time.Minute})
}

// LoginRateLimitMiddleware slows down credential guessing on the admin login.
func (rl *RateLimiter) LoginRateLimitMiddleware() gin.HandlerFunc {
	return rl.Middleware("login", loginRate)
}

// Middleware limits requests per client IP under scope.
// Limiter failures never block the request.
func (rl *RateLimiter) Middleware(scope string, r Rate) gin.HandlerFunc {
	prefix := "ratelimit:" + scope + ":"

	return func(c *gin.Context) {
		ip := c.ClientIP()

		result, err := rl.Allow(c.Request.Context(), prefix+ip, r)
		if err != nil {
			slog.Error("Rate limit check failed", "scope", scope, "ip", ip, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			if rl.metrics != nil {
				rl.metrics.IncrementRateLimitIPBlock()
			}

			retry := max(int(result.RetryAfter.Seconds()+0.5), 1)
			c.Header("Retry-After", strconv.Itoa(retry))
			apperrors.Respond(c, apperrors.NewRateLimitError(strconv.Itoa(retry)+"s"))
			return
		}

		c.Next()
	}
}
