// Package middleware contains gin middleware shared by all routes.
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// NewRateLimitMiddleware creates a per-IP rate limiting middleware allowing
// limit requests per period. Rejected requests get 429 with a JSON error body.
func NewRateLimitMiddleware(limit int64, period time.Duration) gin.HandlerFunc {
	// Define rate: limit requests per period
	rate := limiter.Rate{
		Period: period,
		Limit:  limit,
	}

	// Create in-memory store, keyed by client IP
	store := memory.NewStore()

	// Create rate limiter instance
	instance := limiter.New(store, rate)

	// Create Gin middleware with a JSON rejection body
	return mgin.NewMiddleware(instance,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limited",
				"message": "Too many requests",
			})
		}),
	)
}
