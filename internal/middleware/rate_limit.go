// internal/middleware/rate_limit.go
package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/javajoker/cardshop/internal/utils"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiter struct {
	visitors map[string]*visitor
	mtx      sync.Mutex
	rate     rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	if b <= 0 {
		b = 1
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    b,
		ttl:      3 * time.Minute,
		now:      time.Now,
	}
}

// PerSecond builds a limiter from a requests-per-second figure. Zero or
// less disables limiting.
func PerSecond(rps float64, burst int) *RateLimiter {
	if rps <= 0 {
		return NewRateLimiter(rate.Inf, burst)
	}
	return NewRateLimiter(rate.Limit(rps), burst)
}

func (rl *RateLimiter) getVisitor(key string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	now := rl.now()
	v, exists := rl.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.visitors[key] = &visitor{limiter, now}
		return limiter
	}

	v.lastSeen = now
	return v.limiter
}

// Cleanup drops visitors idle for longer than the ttl.
func (rl *RateLimiter) Cleanup() {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	now := rl.now()
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.ttl {
			delete(rl.visitors, key)
		}
	}
}

// Run sweeps idle visitors every minute until stop is closed.
func (rl *RateLimiter) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			rl.Cleanup()
		}
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.getVisitor(c.ClientIP()).Allow() {
			utils.TooManyRequestsResponse(c)
			c.Abort()
			return
		}

		c.Next()
	}
}
