// ABOUTME: Tests for job retry backoff and token estimation
// ABOUTME: Validates exponential growth, jitter bounds, and the len/4 heuristic
package util

import (
	"strings"
	"testing"
	"time"
)

func TestRetryDelay_ZeroAttempts(t *testing.T) {
	if got := RetryDelay(time.Second, 0); got != 0 {
		t.Errorf("RetryDelay(1s, 0) = %v, want 0", got)
	}
	if got := RetryDelay(time.Second, -3); got != 0 {
		t.Errorf("RetryDelay(1s, -3) = %v, want 0", got)
	}
}

func TestRetryDelay_ExponentialGrowth(t *testing.T) {
	base := 100 * time.Millisecond
	for attempts := 1; attempts <= 5; attempts++ {
		expected := base * time.Duration(1<<uint(attempts))
		minAllowed := expected * 3 / 4
		maxAllowed := expected * 5 / 4

		got := RetryDelay(base, attempts)
		if got < minAllowed || got > maxAllowed {
			t.Errorf("RetryDelay(%v, %d) = %v, want between %v and %v",
				base, attempts, got, minAllowed, maxAllowed)
		}
	}
}

func TestRetryDelay_Cap(t *testing.T) {
	// Attempt 12 at 1s base would be 4096s uncapped
	got := RetryDelay(time.Second, 12)
	maxAllowed := 5*time.Minute + 5*time.Minute/4
	if got > maxAllowed {
		t.Errorf("RetryDelay = %v, want <= %v (cap plus jitter)", got, maxAllowed)
	}
	if got < 0 {
		t.Error("RetryDelay should never be negative")
	}

	// Huge attempt counts must not overflow the shift
	got = RetryDelay(time.Second, 1000)
	if got < 0 || got > maxAllowed {
		t.Errorf("RetryDelay(1s, 1000) = %v, want within cap", got)
	}
}

func TestRetryDelay_JitterVaries(t *testing.T) {
	base := time.Second
	first := RetryDelay(base, 3)
	varied := false
	for i := 0; i < 100; i++ {
		if RetryDelay(base, 3) != first {
			varied = true
			break
		}
	}
	if !varied {
		t.Error("jitter should vary across calls, all 100 samples identical")
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"ab", 1},
		{"abcd", 1},
		{"abcdefgh", 2},
		{strings.Repeat("x", 4000), 1000},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.text); got != tt.want {
			t.Errorf("EstimateTokens(%d chars) = %d, want %d", len(tt.text), got, tt.want)
		}
	}
}
