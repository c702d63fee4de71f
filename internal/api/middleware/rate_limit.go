package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketgo/backend/internal/config"
)

// RateLimit enforces a fixed-window per-IP request cap. The counter lives in
// Redis so the limit stays exact when several server instances share traffic.
// Redis being down fails open: a throttle outage must not take requests down
// with it.
func (m *Middleware) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ratelimit:" + c.ClientIP()
		count, err := m.Storage.IncrementWindow(key, config.RateLimitWindow)
		if err != nil {
			log.Printf("ERROR: rate limit counter unavailable: %v", err)
			c.Next()
			return
		}
		if count > config.RateLimitRequests {
			log.Printf("WARNING: rate limit exceeded for IP %s", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
