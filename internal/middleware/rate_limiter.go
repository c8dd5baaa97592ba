package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter throttles requests per client IP. A second, tighter bucket
// covers authentication endpoints so credential guessing against a single
// account stays slow even from a fresh IP.
type RateLimiter struct {
	mu            sync.Mutex
	limiters      map[string]*rate.Limiter
	requestRate   rate.Limit
	burst         int
	cleanupTicker *time.Ticker
	quit          chan struct{}
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		limiters:      make(map[string]*rate.Limiter),
		requestRate:   rate.Limit(requestsPerSecond),
		burst:         burst,
		cleanupTicker: time.NewTicker(5 * time.Minute),
		quit:          make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// cleanup periodically drops idle limiters so the map does not grow forever
func (rl *RateLimiter) cleanup() {
	for {
		select {
		case <-rl.cleanupTicker.C:
			rl.mu.Lock()
			rl.limiters = make(map[string]*rate.Limiter)
			rl.mu.Unlock()
		case <-rl.quit:
			return
		}
	}
}

// Stop stops the cleanup loop
func (rl *RateLimiter) Stop() {
	rl.cleanupTicker.Stop()
	close(rl.quit)
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(rl.requestRate, rl.burst)
		rl.limiters[key] = limiter
	}
	return limiter
}

// Middleware limits requests by client IP
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.getLimiter(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthMiddleware limits requests by IP and request path, for login and
// signup routes where the acceptable attempt rate is much lower
func (rl *RateLimiter) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + ":" + c.FullPath()
		if !rl.getLimiter(key).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts, please try again later"})
			c.Abort()
			return
		}
		c.Next()
	}
}
