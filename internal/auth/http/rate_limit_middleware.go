package http

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/allisson/dmvault/internal/errors"
	"github.com/allisson/dmvault/internal/httputil"
)

const (
	limiterSweepInterval = 5 * time.Minute
	limiterIdleTTL       = time.Hour
)

// loginLimiters keeps one token bucket per login.
type loginLimiters struct {
	mu      sync.Mutex
	buckets map[string]*loginBucket
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

type loginBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLoginLimiters(rps float64, burst int) *loginLimiters {
	return &loginLimiters{
		buckets: make(map[string]*loginBucket),
		limit:   rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

// reserve takes one token for login. It returns 0 when the request may proceed,
// otherwise the wait until a token frees up. A refused request consumes nothing.
func (l *loginLimiters) reserve(login string) time.Duration {
	l.mu.Lock()
	now := l.now()
	bucket, ok := l.buckets[login]
	if !ok {
		bucket = &loginBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[login] = bucket
	}
	bucket.lastSeen = now
	l.mu.Unlock()

	r := bucket.limiter.ReserveN(now, 1)
	if !r.OK() {
		return limiterIdleTTL
	}
	delay := r.DelayFrom(now)
	if delay > 0 {
		r.CancelAt(now)
	}
	return delay
}

// sweep drops buckets not used since cutoff.
func (l *loginLimiters) sweep(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for login, bucket := range l.buckets {
		if bucket.lastSeen.Before(cutoff) {
			delete(l.buckets, login)
		}
	}
}

func (l *loginLimiters) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *loginLimiters) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweep(l.now().Add(-limiterIdleTTL))
		}
	}
}

// RateLimitMiddleware limits each authenticated login to rps requests per
// second with the given burst. It must run after AuthenticationMiddleware.
// Refused requests get 429 with a Retry-After header in whole seconds.
// Idle limiters are swept until ctx is done.
func RateLimitMiddleware(ctx context.Context, rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	limiters := newLoginLimiters(rps, burst)
	go limiters.sweepLoop(ctx)

	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok {
			logger.Error("rate limit middleware: no authenticated principal in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		delay := limiters.reserve(principal.Login)
		if delay <= 0 {
			c.Next()
			return
		}

		retryAfter := int(math.Ceil(delay.Seconds()))
		logger.Debug("rate limit exceeded",
			slog.String("login", principal.Login),
			slog.Int("retry_after", retryAfter))

		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, httputil.ErrorResponse{
			Error:   "rate_limit_exceeded",
			Message: "Too many requests, retry later",
		})
	}
}
