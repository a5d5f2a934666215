// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
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

	"github.com/carterperez-dev/automarket/internal/core"
)

type RateLimitConfig struct {
	Limit    redis_rate.Limit
	KeyFunc  func(*http.Request) string
	FailOpen bool
}

// RateLimiter throttles market switches. Redis holds the shared GCRA state;
// while it is unreachable every instance falls back to its own buckets.
type RateLimiter struct {
	shared *redis_rate.Limiter
	local  *bucketSet
	cfg    RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByProfile
	}

	return &RateLimiter{
		shared: redis_rate.NewLimiter(rdb),
		local:  newBucketSet(),
		cfg:    cfg,
	}
}

// decision is the verdict of either limiter backend.
type decision struct {
	allowed    bool
	remaining  int
	retryAfter time.Duration
	resetAfter time.Duration
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rl.cfg.KeyFunc(r)

		d, err := rl.take(r.Context(), key)
		if err != nil {
			if !rl.cfg.FailOpen {
				http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
				return
			}
			slog.Warn("market switch limiter failed, letting request through",
				"error", err,
				"key", key,
			)
			next.ServeHTTP(w, r)
			return
		}

		writeLimitHeaders(w.Header(), rl.cfg.Limit, d)

		if !d.allowed {
			rejectSwitch(w, d.retryAfter)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) take(ctx context.Context, key string) (decision, error) {
	res, err := rl.shared.Allow(ctx, key, rl.cfg.Limit)
	if err == nil {
		return decision{
			allowed:    res.Allowed > 0,
			remaining:  res.Remaining,
			retryAfter: res.RetryAfter,
			resetAfter: res.ResetAfter,
		}, nil
	}

	slog.Debug("redis rate limiter unavailable, using local limiter",
		"error", err,
	)
	return rl.local.take(key, rl.cfg.Limit, time.Now())
}

func KeyByIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return "ratelimit:ip:" + strings.TrimSpace(hops[len(hops)-1])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return "ratelimit:ip:" + xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ratelimit:ip:" + host
}

// KeyByProfile limits per browser profile, falling back to the client IP
// for requests that have not passed through the Market middleware.
func KeyByProfile(r *http.Request) string {
	if id := GetProfileID(r.Context()); id != "" {
		return "ratelimit:profile:" + id
	}
	return KeyByIP(r)
}

func writeLimitHeaders(h http.Header, limit redis_rate.Limit, d decision) {
	resetSecs := int(d.resetAfter.Seconds())

	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(d.remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(d.resetAfter).Unix(), 10))
	h.Set("RateLimit-Policy", fmt.Sprintf("%d;w=%d", limit.Rate, int(limit.Period.Seconds())))
	h.Set("RateLimit", fmt.Sprintf("%d;t=%d", d.remaining, resetSecs))
}

func rejectSwitch(w http.ResponseWriter, retryAfter time.Duration) {
	secs := max(int(retryAfter.Seconds()), 1)

	w.Header().Set("Retry-After", strconv.Itoa(secs))
	core.JSON(w, http.StatusTooManyRequests, core.Response{
		Success: false,
		Error: &core.ErrorDetail{
			Code:    "RATE_LIMITED",
			Message: fmt.Sprintf("Too many market switches. Retry after %d seconds.", secs),
		},
	})
}

const (
	sweepInterval = 5 * time.Minute
	bucketIdleTTL = 10 * time.Minute
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// bucketSet is the per-instance fallback. Idle buckets are swept lazily on
// access, so it owns no goroutine.
type bucketSet struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

func newBucketSet() *bucketSet {
	return &bucketSet{buckets: make(map[string]*bucket)}
}

func (b *bucketSet) take(
	key string,
	limit redis_rate.Limit,
	now time.Time,
) (decision, error) {
	if limit.Rate <= 0 || limit.Period <= 0 {
		return decision{}, fmt.Errorf("local limiter: invalid limit %s", limit)
	}
	interval := limit.Period / time.Duration(limit.Rate)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.sweep(now)

	bk, ok := b.buckets[key]
	if !ok {
		bk = &bucket{limiter: rate.NewLimiter(rate.Every(interval), max(limit.Burst, 1))}
		b.buckets[key] = bk
	}
	bk.lastSeen = now

	res := bk.limiter.ReserveN(now, 1)
	if delay := res.DelayFrom(now); !res.OK() || delay > 0 {
		res.CancelAt(now)
		return decision{retryAfter: delay, resetAfter: interval}, nil
	}

	return decision{
		allowed:    true,
		remaining:  max(int(bk.limiter.TokensAt(now)), 0),
		retryAfter: -1,
		resetAfter: interval,
	}, nil
}

func (b *bucketSet) sweep(now time.Time) {
	if now.Sub(b.lastSweep) < sweepInterval {
		return
	}
	b.lastSweep = now

	cutoff := now.Add(-bucketIdleTTL)
	for key, bk := range b.buckets {
		if bk.lastSeen.Before(cutoff) {
			delete(b.buckets, key)
		}
	}
}

// PerWindow allows rate switches per window with the given burst.
func PerWindow(rate, burst int, window time.Duration) redis_rate.Limit {
	if window <= 0 {
		window = time.Minute
	}
	return redis_rate.Limit{
		Rate:   rate,
		Burst:  burst,
		Period: window,
	}
}
