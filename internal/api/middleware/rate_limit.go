package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type IPRateLimiter struct {
	ips    map[string]*rateLimiterWithTime
	mu     sync.Mutex
	rate   rate.Limit
	burst  int
	expiry time.Duration
}

type rateLimiterWithTime struct {
	limiter   *rate.Limiter
	lastUsage time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips:    make(map[string]*rateLimiterWithTime),
		rate:   r,
		burst:  b,
		expiry: time.Hour,
	}
}

// Cleanup drops limiters unused for longer than the expiry. It runs until
// stop is closed.
func (i *IPRateLimiter) Cleanup(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			i.prune(time.Now())
		}
	}
}

func (i *IPRateLimiter) prune(now time.Time) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for ip, wrapper := range i.ips {
		if now.Sub(wrapper.lastUsage) > i.expiry {
			delete(i.ips, ip)
		}
	}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	wrapper, exists := i.ips[ip]
	if !exists {
		wrapper = &rateLimiterWithTime{limiter: rate.NewLimiter(i.rate, i.burst)}
		i.ips[ip] = wrapper
	}
	wrapper.lastUsage = time.Now()

	return wrapper.limiter
}

func RateLimit(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.getLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests",
			})
			return
		}
		c.Next()
	}
}
