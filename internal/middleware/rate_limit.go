// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/elibest/inventory-backend/internal/config"
)

// staleAfter is how long an idle client keeps its token bucket before
// the sweeper drops it.
const staleAfter = 3 * time.Minute

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipThrottle tracks one token bucket per client IP.
type ipThrottle struct {
	mtx     sync.Mutex
	clients map[string]*clientBucket
	limit   rate.Limit
	burst   int
}

func newIPThrottle(limit rate.Limit, burst int) *ipThrottle {
	t := &ipThrottle{
		clients: make(map[string]*clientBucket),
		limit:   limit,
		burst:   burst,
	}
	go t.sweep()
	return t
}

func (t *ipThrottle) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		t.mtx.Lock()
		for ip, b := range t.clients {
			if time.Since(b.lastSeen) > staleAfter {
				delete(t.clients, ip)
			}
		}
		t.mtx.Unlock()
	}
}

func (t *ipThrottle) allow(ip string) bool {
	t.mtx.Lock()
	b, ok := t.clients[ip]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.clients[ip] = b
	}
	b.lastSeen = time.Now()
	t.mtx.Unlock()

	return b.limiter.Allow()
}

func (t *ipThrottle) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !t.allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GeneralRateLimit throttles all traffic per client IP; the configured
// per-second rate doubles as the burst size.
func GeneralRateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	return newIPThrottle(rate.Limit(cfg.GeneralPerSecond), cfg.GeneralPerSecond).middleware()
}

// AuthRateLimit throttles login attempts much harder, per client IP.
func AuthRateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	return newIPThrottle(rate.Every(time.Minute/time.Duration(cfg.AuthPerMinute)), cfg.AuthPerMinute).middleware()
}
