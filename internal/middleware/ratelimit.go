package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// keyed limiter registry, one token bucket per client IP
var (
	limiterMu sync.Mutex
	limiters  = make(map[string]*rate.Limiter)
)

// limiterFor returns (creating if needed) the limiter for a key
func limiterFor(key string, limit rate.Limit, burst int) *rate.Limiter {
	limiterMu.Lock()
	defer limiterMu.Unlock()
	l, ok := limiters[key]
	if !ok {
		l = rate.NewLimiter(limit, burst)
		limiters[key] = l
	}
	return l
}

// RateLimitMiddleware rejects clients that exceed limit requests per second
// (with the given burst) per client IP. Used on the auth endpoints.
func RateLimitMiddleware(limit rate.Limit, burst int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiterFor(c.ClientIP(), limit, burst).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
