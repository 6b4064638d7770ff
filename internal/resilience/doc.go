// Package resilience runs outbound calls under a combined retry and
// rate-limit policy.
//
// A logical call takes exactly one permit from the process-wide Limiter and
// then makes up to RetryPolicy.MaxAttempts physical attempts. Only errors the
// Retryable predicate accepts (by default HTTP 429 and 503) are retried, with
// exponential backoff between attempts capped at RetryPolicy.MaxWait.
package resilience
