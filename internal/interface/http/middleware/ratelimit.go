package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/xiebiao/coursebook/internal/infrastructure/config"
	apperrors "github.com/xiebiao/coursebook/pkg/errors"
	"github.com/xiebiao/coursebook/pkg/response"
)

// limiterIdle 超过该时间没有请求的IP会被清理
const limiterIdle = 10 * time.Minute

// RateLimiter 按客户端IP的令牌桶限流（只用于写接口）
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	limit    rate.Limit
	burst    int
	now      func() time.Time
	lastGC   time.Time
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter rps<=0时不限流
func NewRateLimiter(cfg *config.Config) *RateLimiter {
	burst := cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*ipLimiter),
		limit:    rate.Limit(cfg.RateLimit.RPS),
		burst:    burst,
		now:      time.Now,
	}
}

// Middleware 超出速率返回429
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.limit <= 0 {
			c.Next()
			return
		}
		if !l.allow(c.ClientIP()) {
			response.Abort(c, apperrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

func (l *RateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastGC) > limiterIdle {
		for k, v := range l.limiters {
			if now.Sub(v.lastSeen) > limiterIdle {
				delete(l.limiters, k)
			}
		}
		l.lastGC = now
	}

	entry, ok := l.limiters[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}
