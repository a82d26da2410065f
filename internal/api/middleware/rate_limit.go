package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TRHS-OMNIA/crew-backend/pkg/redis"
	"github.com/TRHS-OMNIA/crew-backend/pkg/response"
)

// RateLimit caps requests per client IP per route over a fixed window,
// counted in Redis. A nil client, or a Redis failure, lets the request
// through rather than blocking traffic on cache availability.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.ClientIP(), c.FullPath())
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			response.FailMessage(c, http.StatusTooManyRequests, "Too Many Requests", "Slow down and try again in a moment.")
			c.Abort()
			return
		}

		c.Next()
	}
}
