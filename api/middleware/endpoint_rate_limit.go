package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// EndpointRateLimiter applies its own limit to each registered route
// pattern. Routes without an entry pass through.
type EndpointRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*RateLimiter
}

func NewEndpointRateLimiter() *EndpointRateLimiter {
	return &EndpointRateLimiter{
		limiters: make(map[string]*RateLimiter),
	}
}

// AddEndpoint limits route, a gin pattern such as "/runs/:model_id", to
// limit requests per window and client IP. A non-positive limit removes it.
func (erl *EndpointRateLimiter) AddEndpoint(route string, limit int, window time.Duration) {
	erl.mu.Lock()
	defer erl.mu.Unlock()
	if limit <= 0 {
		delete(erl.limiters, route)
		return
	}
	erl.limiters[route] = NewRateLimiter(limit, window)
}

func (erl *EndpointRateLimiter) limiter(route string) *RateLimiter {
	erl.mu.RLock()
	defer erl.mu.RUnlock()
	return erl.limiters[route]
}

func (erl *EndpointRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl := erl.limiter(c.FullPath()); rl != nil && !rl.Allow(c.ClientIP()) {
			tooManyRequests(c, "rate limit exceeded for this endpoint", rl.window)
			return
		}
		c.Next()
	}
}

// AuthRateLimiter allows 5 token requests per minute per client IP.
func AuthRateLimiter() gin.HandlerFunc {
	limiter := NewRateLimiter(5, time.Minute)

	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			tooManyRequests(c, "too many authentication attempts, please try again later", limiter.window)
			return
		}
		c.Next()
	}
}

func tooManyRequests(c *gin.Context, message string, window time.Duration) {
	retry := int(window.Seconds())
	c.Header("Retry-After", strconv.Itoa(retry))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":       message,
		"retry_after": retry,
	})
}
