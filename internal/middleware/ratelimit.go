package middleware

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/aman-churiwal/root-panel/internal/handler"
	"github.com/aman-churiwal/root-panel/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

// Throttles attempts per client IP. Used on the login route.
func Throttle(limiter ratelimit.Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()

		// Check Rate Limit
		ctx := c.Request.Context()
		allowed, err := limiter.Allow(ctx, key)
		if err != nil {
			log.Printf("[%s] rate limit check failed: %v", c.GetString("request_id"), err)
			handler.RespondError(c, http.StatusInternalServerError, "Rate limit check failed")
			return
		}

		remaining, _ := limiter.Remaining(ctx, key)
		resetTime, _ := limiter.Reset(ctx, key)

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			retryAfter := max(int(time.Until(resetTime).Seconds()), 0)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			handler.RespondError(c, http.StatusTooManyRequests, "Too many attempts, try again later")
			return
		}

		c.Next()
	}
}
