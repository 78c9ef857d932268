// ABOUTME: Tests for BackgroundJob creation and status transition table
// ABOUTME: Verifies terminal states and attempt bookkeeping invariants
package models

import "testing"

func TestNewBackgroundJob(t *testing.T) {
	job, err := NewBackgroundJob("ent_123", TargetEntity, TaskEnrichEntity, 3)
	if err != nil {
		t.Fatalf("NewBackgroundJob() error = %v", err)
	}

	if job.Status != JobPending {
		t.Errorf("Status = %v, want pending", job.Status)
	}
	if job.Attempts != 0 {
		t.Errorf("Attempts = %d, want 0", job.Attempts)
	}
	if job.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", job.MaxAttempts)
	}
	if job.ID == "" {
		t.Error("ID should not be empty")
	}
}

func TestNewBackgroundJob_Validation(t *testing.T) {
	if _, err := NewBackgroundJob("", TargetEntity, TaskEnrichEntity, 3); err == nil {
		t.Error("expected error for empty target id")
	}
	if _, err := NewBackgroundJob("ent_123", TargetEntity, TaskEnrichEntity, 0); err == nil {
		t.Error("expected error for zero max attempts")
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from JobStatus
		to   JobStatus
		want bool
	}{
		{JobPending, JobRetryAI, true},
		{JobPending, JobCompleted, true},
		{JobPending, JobFailed, true},
		{JobRetryAI, JobRetryAI, true},
		{JobRetryAI, JobCompleted, true},
		{JobRetryAI, JobFailed, true},
		{JobCompleted, JobPending, false},
		{JobCompleted, JobRetryAI, false},
		{JobFailed, JobPending, false},
		{JobFailed, JobRetryAI, false},
		{JobRetryAI, JobPending, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	tests := []struct {
		status JobStatus
		want   bool
	}{
		{JobPending, false},
		{JobRetryAI, false},
		{JobCompleted, true},
		{JobFailed, true},
	}

	for _, tt := range tests {
		job := &BackgroundJob{Status: tt.status}
		if got := job.IsTerminal(); got != tt.want {
			t.Errorf("IsTerminal() with status %v = %v, want %v", tt.status, got, tt.want)
		}
	}
}
