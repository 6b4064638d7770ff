package resilience

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type statusErr int

func (s statusErr) Error() string   { return http.StatusText(int(s)) }
func (s statusErr) StatusCode() int { return int(s) }

type recordedSleeps struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordedSleeps) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.delays = append(r.delays, d)
	r.mu.Unlock()
	return ctx.Err()
}

func newTestExecutor(retry RetryPolicy, limiter *Limiter) (*Executor, *recordedSleeps) {
	rec := &recordedSleeps{}
	e := NewExecutor(retry, limiter, nil, zap.NewNop())
	e.sleep = rec.sleep
	return e, rec
}

func openLimiter() *Limiter {
	return NewLimiter(RateLimitPolicy{LimitForPeriod: 1000, RefreshPeriod: time.Second, AcquireTimeout: time.Second})
}

func TestIsTransientStatus(t *testing.T) {
	assert.True(t, IsTransientStatus(statusErr(http.StatusTooManyRequests)))
	assert.True(t, IsTransientStatus(statusErr(http.StatusServiceUnavailable)))
	assert.True(t, IsTransientStatus(errors.Join(errors.New("ctx"), statusErr(http.StatusServiceUnavailable))))
	assert.False(t, IsTransientStatus(statusErr(http.StatusBadRequest)))
	assert.False(t, IsTransientStatus(statusErr(http.StatusInternalServerError)))
	assert.False(t, IsTransientStatus(statusErr(http.StatusNotFound)))
	assert.False(t, IsTransientStatus(errors.New("connection refused")))
}

func TestExecutor_Do(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 4, InitialWait: 10 * time.Millisecond, MaxWait: 25 * time.Millisecond}

	t.Run("success first try", func(t *testing.T) {
		e, rec := newTestExecutor(policy, openLimiter())
		var calls int

		err := e.Do(context.Background(), "list", func(ctx context.Context) error {
			calls++
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Empty(t, rec.delays)
	})

	t.Run("429 k times then success", func(t *testing.T) {
		for k := 1; k < policy.MaxAttempts; k++ {
			e, rec := newTestExecutor(policy, openLimiter())
			var calls int

			err := e.Do(context.Background(), "list", func(ctx context.Context) error {
				calls++
				if calls <= k {
					return statusErr(http.StatusTooManyRequests)
				}
				return nil
			})

			require.NoError(t, err)
			assert.Equal(t, k+1, calls)
			assert.Len(t, rec.delays, k)
		}
	})

	t.Run("always 429 exhausts attempts", func(t *testing.T) {
		e, rec := newTestExecutor(policy, openLimiter())
		var calls int

		err := e.Do(context.Background(), "list", func(ctx context.Context) error {
			calls++
			return statusErr(http.StatusTooManyRequests)
		})

		require.Error(t, err)
		assert.Equal(t, policy.MaxAttempts, calls)
		var sc StatusCoder
		require.ErrorAs(t, err, &sc)
		assert.Equal(t, http.StatusTooManyRequests, sc.StatusCode())
		assert.Equal(t, []time.Duration{
			10 * time.Millisecond,
			20 * time.Millisecond,
			25 * time.Millisecond,
		}, rec.delays)
	})

	t.Run("503 is retried", func(t *testing.T) {
		e, _ := newTestExecutor(policy, openLimiter())
		var calls int

		err := e.Do(context.Background(), "get", func(ctx context.Context) error {
			calls++
			if calls == 1 {
				return statusErr(http.StatusServiceUnavailable)
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("non retryable status dispatches once", func(t *testing.T) {
		e, rec := newTestExecutor(policy, openLimiter())
		var calls int

		err := e.Do(context.Background(), "create", func(ctx context.Context) error {
			calls++
			return statusErr(http.StatusBadRequest)
		})

		assert.Equal(t, statusErr(http.StatusBadRequest), err)
		assert.Equal(t, 1, calls)
		assert.Empty(t, rec.delays)
	})

	t.Run("transport error is not retried", func(t *testing.T) {
		e, _ := newTestExecutor(policy, openLimiter())
		var calls int
		boom := errors.New("connection refused")

		err := e.Do(context.Background(), "list", func(ctx context.Context) error {
			calls++
			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("single attempt policy", func(t *testing.T) {
		e, _ := newTestExecutor(RetryPolicy{MaxAttempts: 1}, openLimiter())
		var calls int

		err := e.Do(context.Background(), "list", func(ctx context.Context) error {
			calls++
			return statusErr(http.StatusServiceUnavailable)
		})

		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestExecutor_PermitPerLogicalCall(t *testing.T) {
	limiter := NewLimiter(RateLimitPolicy{LimitForPeriod: 1, RefreshPeriod: time.Hour, AcquireTimeout: 5 * time.Millisecond})
	e, _ := newTestExecutor(RetryPolicy{MaxAttempts: 3}, limiter)
	var calls int

	err := e.Do(context.Background(), "list", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return statusErr(http.StatusTooManyRequests)
		}
		return nil
	})
	require.NoError(t, err, "retries do not consume extra permits")
	assert.Equal(t, 3, calls)

	err = e.Do(context.Background(), "list", func(ctx context.Context) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, ErrRateLimitExceeded)
	assert.Equal(t, 3, calls, "rejected call is never dispatched")
}

func TestExecutor_ExcessConcurrentCallsRejected(t *testing.T) {
	const permits = 3
	limiter := NewLimiter(RateLimitPolicy{LimitForPeriod: permits, RefreshPeriod: time.Hour, AcquireTimeout: 10 * time.Millisecond})
	e, _ := newTestExecutor(RetryPolicy{MaxAttempts: 1}, limiter)

	var dispatched, rejected atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := e.Do(context.Background(), "list", func(ctx context.Context) error {
				dispatched.Add(1)
				return nil
			})
			if errors.Is(err, ErrRateLimitExceeded) {
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(permits), dispatched.Load())
	assert.Equal(t, int32(10-permits), rejected.Load())
}

func TestExecutor_CancelDuringBackoff(t *testing.T) {
	e := NewExecutor(RetryPolicy{MaxAttempts: 5, InitialWait: time.Hour, MaxWait: time.Hour}, openLimiter(), nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- e.Do(ctx, "list", func(ctx context.Context) error {
			calls.Add(1)
			return statusErr(http.StatusServiceUnavailable)
		})
	}()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("retry loop did not stop after cancellation")
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestCall(t *testing.T) {
	e, _ := newTestExecutor(RetryPolicy{MaxAttempts: 2}, openLimiter())
	var calls int

	got, err := Call(context.Background(), e, "highest", func(ctx context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, statusErr(http.StatusTooManyRequests)
		}
		return 90000, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 90000, got)
}
