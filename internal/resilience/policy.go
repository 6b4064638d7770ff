package resilience

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// BackoffMultiplier is fixed; only the initial and maximum waits are tunable.
const BackoffMultiplier = 2.0

// RetryPolicy defines the backoff schedule of a logical call.
type RetryPolicy struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
}

// Attempts returns MaxAttempts clamped to at least one.
func (p RetryPolicy) Attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Delay returns the wait after the n-th failed attempt (n starts at 1):
// min(InitialWait * 2^(n-1), MaxWait).
func (p RetryPolicy) Delay(n int) time.Duration {
	if n < 1 {
		return 0
	}
	schedule := p.schedule()
	var d time.Duration
	for i := 0; i < n; i++ {
		d = schedule.NextBackOff()
	}
	return min(d, p.MaxWait)
}

// schedule builds a deterministic exponential schedule: no jitter and no
// elapsed-time cutoff, attempts are bounded by MaxAttempts instead.
func (p RetryPolicy) schedule() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialWait
	b.MaxInterval = p.MaxWait
	b.Multiplier = BackoffMultiplier
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}
