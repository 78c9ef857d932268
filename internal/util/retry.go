// ABOUTME: Backoff calculation for rescheduling failed enrichment jobs
// ABOUTME: Exponential growth with jitter so retrying jobs do not stampede the provider
package util

import (
	"math/rand/v2"
	"time"
)

// maxRetryDelay bounds how far into the future a retrying job can be pushed
const maxRetryDelay = 5 * time.Minute

// RetryDelay returns the delay before a job's next attempt.
// Doubles per charged attempt with ±25% jitter, capped at maxRetryDelay.
func RetryDelay(baseDelay time.Duration, attempts int) time.Duration {
	if attempts <= 0 {
		return 0
	}
	// Cap the shift to avoid overflow
	if attempts > 20 {
		attempts = 20
	}
	delay := baseDelay * time.Duration(1<<uint(attempts))
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	jitter := time.Duration(rand.Int64N(int64(delay)/2)) - delay/4
	return delay + jitter
}
