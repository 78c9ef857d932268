// ABOUTME: Centralized configuration for the context engine
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the context engine
type Config struct {
	// Storage settings
	DBPath string

	// OpenAI settings
	OpenAIKey string
	ChatModel string
	Timeout   time.Duration

	// Job queue settings
	JobConcurrency   int
	JobDispatchDelay time.Duration
	JobMaxAttempts   int
	JobPollInterval  time.Duration

	// Retrieval settings
	DefaultTokenBudget  int
	ContextDecayRate    float64
	MaxSeedEntities     int
	TopicShiftThreshold float64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		DBPath:              getEnv("DEVCONTEXT_DB_PATH", ""),
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		ChatModel:           getEnv("DEVCONTEXT_OPENAI_MODEL", "gpt-4o-mini"),
		Timeout:             getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		JobConcurrency:      getEnvInt("JOB_CONCURRENCY", 1),
		JobDispatchDelay:    getEnvDuration("JOB_DISPATCH_DELAY", 500*time.Millisecond),
		JobMaxAttempts:      getEnvInt("JOB_MAX_ATTEMPTS", 3),
		JobPollInterval:     getEnvDuration("JOB_POLL_INTERVAL", 5*time.Second),
		DefaultTokenBudget:  getEnvInt("DEFAULT_TOKEN_BUDGET", 4000),
		ContextDecayRate:    getEnvFloat("CONTEXT_DECAY_RATE", 0.05),
		MaxSeedEntities:     getEnvInt("MAX_SEED_ENTITIES", 5),
		TopicShiftThreshold: getEnvFloat("TOPIC_SHIFT_THRESHOLD", 0.3),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.JobConcurrency < 1 || c.JobConcurrency > 32 {
		return fmt.Errorf("JOB_CONCURRENCY must be 1-32, got %d", c.JobConcurrency)
	}
	if c.JobMaxAttempts < 1 || c.JobMaxAttempts > 10 {
		return fmt.Errorf("JOB_MAX_ATTEMPTS must be 1-10, got %d", c.JobMaxAttempts)
	}
	if c.JobPollInterval < 100*time.Millisecond {
		return fmt.Errorf("JOB_POLL_INTERVAL must be at least 100ms, got %s", c.JobPollInterval)
	}
	if c.DefaultTokenBudget < 1 {
		return fmt.Errorf("DEFAULT_TOKEN_BUDGET must be positive, got %d", c.DefaultTokenBudget)
	}
	if c.ContextDecayRate < 0 || c.ContextDecayRate > 1 {
		return fmt.Errorf("CONTEXT_DECAY_RATE must be 0-1, got %f", c.ContextDecayRate)
	}
	if c.MaxSeedEntities < 1 || c.MaxSeedEntities > 50 {
		return fmt.Errorf("MAX_SEED_ENTITIES must be 1-50, got %d", c.MaxSeedEntities)
	}
	if c.TopicShiftThreshold < 0 || c.TopicShiftThreshold > 1 {
		return fmt.Errorf("TOPIC_SHIFT_THRESHOLD must be 0-1, got %f", c.TopicShiftThreshold)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
