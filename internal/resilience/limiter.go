package resilience

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"
)

// ErrRateLimitExceeded is returned when no permit became available within
// RateLimitPolicy.AcquireTimeout. The call is never dispatched.
var ErrRateLimitExceeded = errors.New("rate limiter: no permit available within timeout")

// RateLimitPolicy allows LimitForPeriod calls per RefreshPeriod.
type RateLimitPolicy struct {
	LimitForPeriod int
	RefreshPeriod  time.Duration
	AcquireTimeout time.Duration
}

// Limiter is a token bucket holding at most LimitForPeriod permits and
// refilling them evenly over RefreshPeriod. It is safe for concurrent use and
// meant to be shared by every outbound call of the process.
type Limiter struct {
	bucket  *rate.Limiter
	timeout time.Duration
}

func NewLimiter(p RateLimitPolicy) *Limiter {
	permits := max(p.LimitForPeriod, 1)
	period := p.RefreshPeriod
	if period <= 0 {
		period = time.Second
	}
	return &Limiter{
		bucket:  rate.NewLimiter(rate.Every(period/time.Duration(permits)), permits),
		timeout: p.AcquireTimeout,
	}
}

// Acquire takes one permit, waiting at most the configured timeout. Caller
// cancellation wins over the limiter verdict and is returned as ctx.Err().
func (l *Limiter) Acquire(ctx context.Context) error {
	if l.timeout <= 0 {
		if l.bucket.Allow() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		return ErrRateLimitExceeded
	}

	waitCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	if err := l.bucket.Wait(waitCtx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return ErrRateLimitExceeded
	}
	return nil
}

// AllowAt takes a permit if one is available at t without waiting.
func (l *Limiter) AllowAt(t time.Time) bool {
	return l.bucket.AllowN(t, 1)
}

// TokensAt reports the permits available at t.
func (l *Limiter) TokensAt(t time.Time) float64 {
	return l.bucket.TokensAt(t)
}
