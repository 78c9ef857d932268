// ABOUTME: BackgroundJob represents an asynchronous enrichment task with retry bookkeeping
// ABOUTME: Job status transitions are checked against an explicit transition table
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a background job
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRetryAI   JobStatus = "retry_ai"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// jobTransitions is the exhaustive table of legal status transitions.
// completed and failed are terminal.
var jobTransitions = map[JobStatus][]JobStatus{
	JobPending:   {JobRetryAI, JobCompleted, JobFailed},
	JobRetryAI:   {JobRetryAI, JobCompleted, JobFailed},
	JobCompleted: {},
	JobFailed:    {},
}

// CanTransition reports whether moving from one status to another is legal
func CanTransition(from, to JobStatus) bool {
	for _, next := range jobTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TaskType identifies what kind of enrichment a job performs
type TaskType string

const (
	TaskEnrichEntity   TaskType = "enrich_entity"
	TaskEnrichDocument TaskType = "enrich_document"
)

// TargetType identifies what a job's target id refers to
type TargetType string

const (
	TargetEntity   TargetType = "entity"
	TargetDocument TargetType = "document"
)

// BackgroundJob is a persisted enrichment task.
// Invariant: Attempts <= MaxAttempts; once exceeded the job is terminal.
type BackgroundJob struct {
	ID              string     `json:"id"`
	TargetID        string     `json:"target_id"`
	TargetType      TargetType `json:"target_type"`
	TaskType        TaskType   `json:"task_type"`
	Status          JobStatus  `json:"status"`
	Attempts        int        `json:"attempts"`
	MaxAttempts     int        `json:"max_attempts"`
	LastAttemptedAt *time.Time `json:"last_attempted_at,omitempty"`
	ErrorMessage    string     `json:"error_message,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// NewBackgroundJob creates a pending job with validation
func NewBackgroundJob(targetID string, targetType TargetType, taskType TaskType, maxAttempts int) (*BackgroundJob, error) {
	if strings.TrimSpace(targetID) == "" {
		return nil, errors.New("job target id cannot be empty")
	}
	if maxAttempts < 1 {
		return nil, fmt.Errorf("max attempts must be at least 1, got %d", maxAttempts)
	}
	return &BackgroundJob{
		ID:          fmt.Sprintf("job_%s_%s", time.Now().Format("20060102_150405"), uuid.New().String()[:8]),
		TargetID:    targetID,
		TargetType:  targetType,
		TaskType:    taskType,
		Status:      JobPending,
		MaxAttempts: maxAttempts,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// IsTerminal reports whether the job can no longer be picked up
func (j *BackgroundJob) IsTerminal() bool {
	return j.Status == JobCompleted || j.Status == JobFailed
}
