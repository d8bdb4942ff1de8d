// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/salescrm/internal/core"
)

type RateLimitConfig struct {
	Limit   redis_rate.Limit
	KeyFunc func(*http.Request) string
}

// RateLimiter enforces a GCRA limit in Redis and falls back to an in-process
// token bucket per key while Redis is unreachable.
type RateLimiter struct {
	limiter  *redis_rate.Limiter
	fallback *localLimiter
	config   RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByUserOrIP
	}

	return &RateLimiter{
		limiter:  redis_rate.NewLimiter(rdb),
		fallback: &localLimiter{},
		config:   cfg,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rl.config.KeyFunc(r)

		res, err := rl.limiter.Allow(r.Context(), key, rl.config.Limit)
		if err != nil {
			slog.Warn("redis rate limiter unavailable, using local limiter",
				"error", err,
				"key", key,
			)
			res = rl.fallback.allow(key, rl.config.Limit)
		}

		h := w.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit.Rate))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if res.Allowed == 0 {
			retryAfter := int(res.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			h.Set("Retry-After", strconv.Itoa(retryAfter))
			core.JSONError(w, core.NewAppError(
				nil,
				fmt.Sprintf("rate limit exceeded, retry after %d seconds", retryAfter),
				http.StatusTooManyRequests,
				"RATE_LIMITED",
			))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func KeyByUserOrIP(r *http.Request) string {
	if userID := GetUserID(r.Context()); userID != "" {
		return "ratelimit:user:" + userID
	}
	return "ratelimit:ip:" + ClientIP(r)
}

// ClientIP prefers the proxy supplied address over RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[len(ips)-1])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func PerMinute(requests, burst int) redis_rate.Limit {
	return redis_rate.Limit{
		Rate:   requests,
		Burst:  burst,
		Period: time.Minute,
	}
}

type localLimiter struct {
	limiters sync.Map
}

func (l *localLimiter) allow(key string, limit redis_rate.Limit) *redis_rate.Result {
	perSecond := float64(limit.Rate) / limit.Period.Seconds()

	entry, _ := l.limiters.LoadOrStore(key, rate.NewLimiter(rate.Limit(perSecond), limit.Burst))
	limiter, _ := entry.(*rate.Limiter)

	res := &redis_rate.Result{
		Limit:     limit,
		Remaining: max(int(limiter.Tokens()), 0),
	}
	if limiter.Allow() {
		res.Allowed = 1
		res.RetryAfter = -1
	} else {
		res.RetryAfter = time.Duration(float64(time.Second) / perSecond)
	}
	return res
}
