package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bizledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter decides whether the caller identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining int, err error)
	Limit() int
}

// RateLimiter is a fixed window limiter kept in process memory
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*window
	limit   int
	window  time.Duration
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

type window struct {
	tokens    int
	lastReset time.Time
}

// NewRateLimiter creates a new rate limiter and starts its janitor
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		window:  period,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go rl.cleanup(period * 2)
	return rl
}

// Stop ends the janitor goroutine
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for key, w := range rl.clients {
				if now.Sub(w.lastReset) > rl.window*2 {
					delete(rl.clients, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Limit returns the number of requests allowed per window
func (rl *RateLimiter) Limit() int { return rl.limit }

// Allow consumes one request for key
func (rl *RateLimiter) Allow(_ context.Context, key string) (bool, int, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, exists := rl.clients[key]
	if !exists || now.Sub(w.lastReset) >= rl.window {
		rl.clients[key] = &window{tokens: rl.limit - 1, lastReset: now}
		return true, rl.limit - 1, nil
	}
	if w.tokens > 0 {
		w.tokens--
		return true, w.tokens, nil
	}
	return false, 0, nil
}

// RedisRateLimiter is a fixed window limiter shared by every replica
type RedisRateLimiter struct {
	client redis.UniversalClient
	prefix string
	limit  int
	window time.Duration
}

// NewRedisRateLimiter creates a limiter storing its counters under prefix
func NewRedisRateLimiter(client redis.UniversalClient, prefix string, limit int, period time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, prefix: prefix, limit: limit, window: period}
}

// Limit returns the number of requests allowed per window
func (l *RedisRateLimiter) Limit() int { return l.limit }

// Allow increments the caller's counter; the first hit of a window sets its expiry
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	redisKey := l.prefix + key
	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return true, l.limit, err
	}
	count := int(incr.Val())
	if count > l.limit {
		return false, 0, nil
	}
	return true, l.limit - count, nil
}

// RateLimitConfig configures the RateLimit middleware
type RateLimitConfig struct {
	Limiter Limiter
	// KeyFunc identifies the caller; defaults to the client IP
	KeyFunc func(*gin.Context) string
	Logger  *zap.Logger
}

// ClientIPKey limits per client address
func ClientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

// ActorOrIPKey limits authenticated callers per user and everyone else per address
func ActorOrIPKey(c *gin.Context) string {
	if actor, ok := GetActor(c); ok {
		return "user:" + actor.UserID.String()
	}
	return "ip:" + c.ClientIP()
}

// RateLimit returns a rate limiting middleware. Limiter errors fail open.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = ClientIPKey
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		allowed, remaining, err := cfg.Limiter.Allow(c.Request.Context(), keyFunc(c))
		if err != nil {
			log.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			abortWithError(c, http.StatusTooManyRequests, dto.ErrCodeRateLimited, "Too many requests. Please try again later.")
			return
		}
		c.Next()
	}
}
