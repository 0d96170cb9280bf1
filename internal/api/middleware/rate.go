package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/osa911/contactrelay/internal/api/constants"
	"github.com/osa911/contactrelay/internal/api/dto/common"
	"github.com/osa911/contactrelay/internal/ratelimit"
)

// RateLimitConfig defines configuration for the global rate limiter
type RateLimitConfig struct {
	// Requests per second
	RPS int
	// Burst size (number of requests that can be made in a single burst)
	Burst int
}

// RateLimitMiddleware caps the total request rate of the process with a token bucket.
// It guards against floods that are spread across many source addresses.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(config.RPS), config.Burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.NewErrorResponse(common.MsgRateLimited))
			return
		}

		c.Next()
	}
}

// KeyFunc derives the rate limit key for a request
type KeyFunc func(c *gin.Context) string

// ClientIPKey keys requests by client address
func ClientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

// SourceRateLimit counts every request against its source in store and rejects
// requests over the limit before any other work is done.
func SourceRateLimit(store ratelimit.Store, key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := store.Take(key(c))
		c.Set(constants.ContextKeyRateLimit, decision)

		resetSeconds := strconv.Itoa(int(math.Ceil(decision.Wait.Seconds())))

		c.Header("RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("RateLimit-Reset", resetSeconds)

		if !decision.Allowed {
			c.Header("Retry-After", resetSeconds)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.NewErrorResponse(common.MsgTooManyRequests))
			return
		}

		c.Next()
	}
}
