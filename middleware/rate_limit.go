package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/justyn/meow/config"
	"github.com/justyn/meow/utils"
)

const visitorTTL = 5 * time.Minute

// visitor tracks a per-IP token bucket and when it was last seen.
type visitor struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

var (
	visitorsMu sync.Mutex
	visitors   = map[string]*visitor{}
	lastSweep  time.Time
)

// RateLimit throttles requests per client IP with a token bucket sized
// from the configured per-minute budget.
func RateLimit() gin.HandlerFunc {
	cfg := config.Get()
	perMinute := cfg.RateLimitPerMinute
	if perMinute < 1 {
		perMinute = 1
	}
	limit := rate.Every(time.Minute / time.Duration(perMinute))
	burst := perMinute / 2
	if burst < 1 {
		burst = 1
	}

	return func(ctx *gin.Context) {
		if !allow(ctx.ClientIP(), limit, burst) {
			utils.Error(ctx, http.StatusTooManyRequests, utils.CodeRateLimited, "rate limit exceeded")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

func allow(ip string, limit rate.Limit, burst int) bool {
	visitorsMu.Lock()
	defer visitorsMu.Unlock()

	now := time.Now()
	if now.Sub(lastSweep) > visitorTTL {
		for ip, v := range visitors {
			if now.Sub(v.lastSeen) > visitorTTL {
				delete(visitors, ip)
			}
		}
		lastSweep = now
	}

	v, ok := visitors[ip]
	if !ok {
		v = &visitor{bucket: rate.NewLimiter(limit, burst)}
		visitors[ip] = v
	}
	v.lastSeen = now
	return v.bucket.Allow()
}
