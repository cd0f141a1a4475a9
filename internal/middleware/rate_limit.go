package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// Decision is the outcome of one rate limit check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
	Window    time.Duration
}

// Limiter counts requests per key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// RedisLimiter is a fixed-window counter shared by every API process.
type RedisLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	now    func() time.Time
}

// NewRedisLimiter creates a new rate limiter instance
func NewRedisLimiter(redisClient *redis.Client, config RateLimitConfig) *RedisLimiter {
	return &RedisLimiter{
		redis:  redisClient,
		config: config,
		now:    time.Now,
	}
}

// NewRecognitionRateLimiter limits recognition calls per account.
func NewRecognitionRateLimiter(redisClient *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return NewRedisLimiter(redisClient, RateLimitConfig{
		Window:    window,
		Limit:     limit,
		KeyPrefix: "rate_limit:recognition",
	})
}

// Allow increments the counter of the current window and reports whether the
// request fits in it.
func (rl *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	windowStart := rl.now().Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, err
	}

	count := int(incrCmd.Val())
	return Decision{
		Allowed:   count <= rl.config.Limit,
		Limit:     rl.config.Limit,
		Remaining: max(rl.config.Limit-count, 0),
		Reset:     windowStart.Add(rl.config.Window),
		Window:    rl.config.Window,
	}, nil
}

// LocalLimiter is a per-process token bucket per key. The bucket holds Limit
// tokens and refills at Limit per Window. A bucket idle for a whole Window is
// full again and gets dropped.
type LocalLimiter struct {
	config RateLimitConfig
	now    func() time.Time

	mu        sync.Mutex
	buckets   map[string]*localBucket
	lastSweep time.Time
}

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter creates an in-memory limiter for deployments without Redis.
func NewLocalLimiter(config RateLimitConfig) *LocalLimiter {
	return &LocalLimiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*localBucket),
	}
}

func (l *LocalLimiter) interval() time.Duration {
	return l.config.Window / time.Duration(l.config.Limit)
}

func (l *LocalLimiter) bucket(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.config.Window {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) >= l.config.Window {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &localBucket{limiter: rate.NewLimiter(rate.Every(l.interval()), l.config.Limit)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter
}

// Len reports how many keys currently hold a bucket.
func (l *LocalLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := l.now()
	b := l.bucket(key, now)
	allowed := b.AllowN(now, 1)
	tokens := b.TokensAt(now)

	missing := float64(l.config.Limit) - tokens
	return Decision{
		Allowed:   allowed,
		Limit:     l.config.Limit,
		Remaining: max(int(tokens), 0),
		Reset:     now.Add(time.Duration(missing * float64(l.interval()))),
		Window:    l.config.Window,
	}, nil
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting
// per authenticated account
func RateLimitMiddleware(limiter Limiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(UserIDKey)
		if userID == "" {
			abortUnauthorized(c)
			return
		}

		d, err := limiter.Allow(c.Request.Context(), userID)
		if err != nil {
			// Log error but don't fail the request
			log.Warn("rate limit check failed", zap.Error(err))
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(d.Reset.Unix(), 10))

		if !d.Allowed {
			retryAfter := int(time.Until(d.Reset).Seconds())
			c.Header("Retry-After", strconv.Itoa(max(retryAfter, 1)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Message: fmt.Sprintf("Rate limit exceeded: %d requests per %v", d.Limit, d.Window),
			})
			return
		}

		c.Next()
	}
}
