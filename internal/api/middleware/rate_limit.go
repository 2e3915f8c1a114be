package middleware

import (
	"fmt"
	"math"
	"sync"
	"time"

	"chefmate-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter 依使用者（未登入時依 IP）分別限流
type RateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	limit     rate.Limit
	burst     int
	window    time.Duration
	idle      time.Duration
	lastPrune time.Time
	now       func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter 每個 window 允許 requests 次，瞬間最多 burst 次
func NewRateLimiter(requests int, window time.Duration, burst int) *RateLimiter {
	interval := window / time.Duration(requests)
	// 閒置超過 idle 的桶已補滿，移除後重建等價
	idle := time.Duration(burst) * interval
	if idle < window {
		idle = window
	}
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Every(interval),
		burst:    burst,
		window:   window,
		idle:     idle,
		now:      time.Now,
	}
}

// Allow 檢查是否允許請求
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	now := rl.now()
	if rl.lastPrune.IsZero() {
		rl.lastPrune = now
	}
	if now.Sub(rl.lastPrune) > rl.idle {
		rl.prune(now)
	}

	entry, ok := rl.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastSeen = now
	rl.mu.Unlock()

	return entry.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) prune(now time.Time) {
	for key, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > rl.idle {
			delete(rl.limiters, key)
		}
	}
	rl.lastPrune = now
}

// Len 目前追蹤的 key 數量
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// Middleware 限流中間件
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	retryAfter := int(math.Ceil(time.Duration(float64(time.Second) / float64(rl.limit)).Seconds()))
	if retryAfter < 1 {
		retryAfter = 1
	}

	return func(c *gin.Context) {
		key := c.ClientIP()
		if user, ok := CurrentUser(c); ok {
			key = "user:" + user.UID
		}

		if !rl.Allow(key) {
			common.LogInfo("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", c.Request.URL.Path),
			)
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			AbortWithError(c, common.ErrTooManyRequests)
			return
		}

		c.Next()
	}
}
