package httpmiddleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// IPRateLimiter enforces a per-IP request budget using token buckets. Idle
// entries are evicted so the map stays bounded.
type IPRateLimiter struct {
	mu         sync.Mutex
	limiters   map[string]*rate.Limiter
	lastAccess map[string]time.Time
	rate       rate.Limit
	burst      int
}

// NewIPRateLimiter creates a limiter allowing perMinute requests per client
// IP with a 10% burst (minimum 1).
func NewIPRateLimiter(perMinute int) *IPRateLimiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	burst := perMinute / 10
	if burst < 1 {
		burst = 1
	}
	return &IPRateLimiter{
		limiters:   make(map[string]*rate.Limiter),
		lastAccess: make(map[string]time.Time),
		rate:       rate.Limit(float64(perMinute) / 60.0),
		burst:      burst,
	}
}

// GinMiddleware returns a gin handler enforcing the per-IP limit.
func (l *IPRateLimiter) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if !l.allow(ip) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit"})
			return
		}
		c.Next()
	}
}

func (l *IPRateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = limiter
	}
	l.lastAccess[key] = time.Now()
	return limiter.Allow()
}

// Start launches the background sweep of idle client entries. Non-blocking.
func (l *IPRateLimiter) Start(ctx context.Context, maxAge time.Duration) {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	go func() {
		ticker := time.NewTicker(maxAge / 4)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.Evict(maxAge)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Evict removes limiters that have not been used within maxAge.
func (l *IPRateLimiter) Evict(maxAge time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := time.Now().Add(-maxAge)
	for key, last := range l.lastAccess {
		if last.Before(cutoff) {
			delete(l.limiters, key)
			delete(l.lastAccess, key)
		}
	}
}
