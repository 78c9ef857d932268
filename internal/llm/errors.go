// ABOUTME: Provider error taxonomy for the enrichment collaborator
// ABOUTME: Rate limits are retryable without charging an attempt; provider errors are charged
package llm

import (
	"fmt"
	"time"
)

// RateLimitError signals the provider rejected the call due to rate limiting.
// The job queue reschedules after RetryAfter without charging an attempt.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited by provider, retry after %s", e.RetryAfter)
}

// ProviderError signals any other enrichment provider failure.
// Each occurrence charges one attempt against the job's budget.
type ProviderError struct {
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("enrichment provider error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("enrichment provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
