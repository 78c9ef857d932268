// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment variable parsing and validation
package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear environment to test defaults
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Verify defaults
	if cfg.ChatModel != "gpt-4o-mini" {
		t.Errorf("ChatModel = %s, want gpt-4o-mini", cfg.ChatModel)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.JobConcurrency != 1 {
		t.Errorf("JobConcurrency = %d, want 1", cfg.JobConcurrency)
	}
	if cfg.JobDispatchDelay != 500*time.Millisecond {
		t.Errorf("JobDispatchDelay = %v, want 500ms", cfg.JobDispatchDelay)
	}
	if cfg.JobMaxAttempts != 3 {
		t.Errorf("JobMaxAttempts = %d, want 3", cfg.JobMaxAttempts)
	}
	if cfg.JobPollInterval != 5*time.Second {
		t.Errorf("JobPollInterval = %v, want 5s", cfg.JobPollInterval)
	}
	if cfg.DefaultTokenBudget != 4000 {
		t.Errorf("DefaultTokenBudget = %d, want 4000", cfg.DefaultTokenBudget)
	}
	if cfg.ContextDecayRate != 0.05 {
		t.Errorf("ContextDecayRate = %f, want 0.05", cfg.ContextDecayRate)
	}
	if cfg.MaxSeedEntities != 5 {
		t.Errorf("MaxSeedEntities = %d, want 5", cfg.MaxSeedEntities)
	}
	if cfg.TopicShiftThreshold != 0.3 {
		t.Errorf("TopicShiftThreshold = %f, want 0.3", cfg.TopicShiftThreshold)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	os.Setenv("DEVCONTEXT_DB_PATH", "/tmp/ctx.db")
	os.Setenv("OPENAI_API_KEY", "test-key")
	os.Setenv("DEVCONTEXT_OPENAI_MODEL", "gpt-4")
	os.Setenv("JOB_CONCURRENCY", "4")
	os.Setenv("JOB_DISPATCH_DELAY", "50ms")
	os.Setenv("JOB_POLL_INTERVAL", "1s")
	os.Setenv("DEFAULT_TOKEN_BUDGET", "2000")
	os.Setenv("CONTEXT_DECAY_RATE", "0.1")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.DBPath != "/tmp/ctx.db" {
		t.Errorf("DBPath = %s, want /tmp/ctx.db", cfg.DBPath)
	}
	if cfg.OpenAIKey != "test-key" {
		t.Errorf("OpenAIKey = %s, want test-key", cfg.OpenAIKey)
	}
	if cfg.ChatModel != "gpt-4" {
		t.Errorf("ChatModel = %s, want gpt-4", cfg.ChatModel)
	}
	if cfg.JobConcurrency != 4 {
		t.Errorf("JobConcurrency = %d, want 4", cfg.JobConcurrency)
	}
	if cfg.JobDispatchDelay != 50*time.Millisecond {
		t.Errorf("JobDispatchDelay = %v, want 50ms", cfg.JobDispatchDelay)
	}
	if cfg.JobPollInterval != time.Second {
		t.Errorf("JobPollInterval = %v, want 1s", cfg.JobPollInterval)
	}
	if cfg.DefaultTokenBudget != 2000 {
		t.Errorf("DefaultTokenBudget = %d, want 2000", cfg.DefaultTokenBudget)
	}
	if cfg.ContextDecayRate != 0.1 {
		t.Errorf("ContextDecayRate = %f, want 0.1", cfg.ContextDecayRate)
	}
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("JOB_CONCURRENCY", "not-a-number")
	os.Setenv("JOB_POLL_INTERVAL", "garbage")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.JobConcurrency != 1 {
		t.Errorf("JobConcurrency = %d, want default 1", cfg.JobConcurrency)
	}
	if cfg.JobPollInterval != 5*time.Second {
		t.Errorf("JobPollInterval = %v, want default 5s", cfg.JobPollInterval)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"concurrency too high", "JOB_CONCURRENCY", "100"},
		{"zero attempts", "JOB_MAX_ATTEMPTS", "0"},
		{"poll too fast", "JOB_POLL_INTERVAL", "10ms"},
		{"negative budget", "DEFAULT_TOKEN_BUDGET", "-1"},
		{"decay out of range", "CONTEXT_DECAY_RATE", "2.0"},
		{"threshold out of range", "TOPIC_SHIFT_THRESHOLD", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			os.Setenv(tt.key, tt.val)
			defer os.Clearenv()

			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s should fail validation", tt.key, tt.val)
			}
		})
	}
}
