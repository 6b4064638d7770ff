package resilience

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-employee-gateway/internal/shared/contextutil"

	"go.uber.org/zap"
)

// StatusCoder is implemented by errors that carry an HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// IsTransientStatus reports whether err carries 429 Too Many Requests or
// 503 Service Unavailable.
func IsTransientStatus(err error) bool {
	var sc StatusCoder
	if !errors.As(err, &sc) {
		return false
	}
	switch sc.StatusCode() {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return true
	default:
		return false
	}
}

// Executor applies one RetryPolicy and one shared Limiter to every call.
type Executor struct {
	retry     RetryPolicy
	limiter   *Limiter
	retryable func(error) bool
	sleep     func(ctx context.Context, d time.Duration) error
	logger    *zap.Logger
}

// NewExecutor builds an executor. A nil retryable defaults to
// IsTransientStatus.
func NewExecutor(retry RetryPolicy, limiter *Limiter, retryable func(error) bool, logger ...*zap.Logger) *Executor {
	l := zap.L().Named("resilience.executor")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("resilience.executor")
	}
	if retryable == nil {
		retryable = IsTransientStatus
	}
	return &Executor{
		retry:     retry,
		limiter:   limiter,
		retryable: retryable,
		sleep:     sleepContext,
		logger:    l,
	}
}

// Do runs fn as one logical call named op. It returns nil on the first
// successful attempt, the error of a non-retryable attempt as-is, a wrapped
// last error once attempts are exhausted, ErrRateLimitExceeded when no
// permit was granted, or ctx.Err() if the caller went away.
func (e *Executor) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	log := contextutil.GetLogger(ctx, e.logger).With(zap.String("operation", op))

	if e.limiter != nil {
		if err := e.limiter.Acquire(ctx); err != nil {
			if errors.Is(err, ErrRateLimitExceeded) {
				RateLimitRejectionsTotal.Inc()
				UpstreamCallsTotal.WithLabelValues(op, outcomeRateLimited).Inc()
				log.Warn("upstream call rejected by rate limiter")
			} else {
				UpstreamCallsTotal.WithLabelValues(op, outcomeCanceled).Inc()
			}
			return err
		}
	}

	err := e.attempt(ctx, op, fn, log)

	UpstreamLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	switch {
	case err == nil:
		UpstreamCallsTotal.WithLabelValues(op, outcomeSuccess).Inc()
	case errors.Is(err, context.Canceled):
		UpstreamCallsTotal.WithLabelValues(op, outcomeCanceled).Inc()
	default:
		UpstreamCallsTotal.WithLabelValues(op, outcomeError).Inc()
	}
	return err
}

func (e *Executor) attempt(ctx context.Context, op string, fn func(ctx context.Context) error, log *zap.Logger) error {
	maxAttempts := e.retry.Attempts()

	for attempt := 1; ; attempt++ {
		UpstreamAttemptsTotal.WithLabelValues(op).Inc()

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !e.retryable(err) {
			return err
		}
		if attempt >= maxAttempts {
			log.Warn("upstream retries exhausted",
				zap.Int("attempts", attempt),
				zap.Error(err),
			)
			return fmt.Errorf("giving up after %d attempts: %w", attempt, err)
		}

		delay := e.retry.Delay(attempt)
		log.Debug("retrying upstream call",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)
		if err := e.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// Call is Do for functions that produce a value.
func Call[T any](ctx context.Context, e *Executor, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := e.Do(ctx, op, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
