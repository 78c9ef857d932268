// ABOUTME: Tests for background job storage and retry bookkeeping
// ABOUTME: Verifies polling eligibility, the retry law, rate-limit rescheduling, and cancellation
package sqlite

import (
	"testing"
	"time"

	"github.com/mandelbro/devcontext-local-sub001/internal/models"
)

func mustJob(t *testing.T, store *Store, targetID string, maxAttempts int) *models.BackgroundJob {
	t.Helper()
	job, err := models.NewBackgroundJob(targetID, models.TargetEntity, models.TaskEnrichEntity, maxAttempts)
	if err != nil {
		t.Fatalf("NewBackgroundJob() error = %v", err)
	}
	if err := store.Jobs.Create(job); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return job
}

func TestJobStore_FetchPendingAIJobs(t *testing.T) {
	store, err := NewStoreInMemory()
	if err != nil {
		t.Fatalf("NewStoreInMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	first := mustJob(t, store, "ent_1", 3)
	second := mustJob(t, store, "ent_2", 3)
	_ = second

	jobs, err := store.Jobs.FetchPendingAIJobs(10)
	if err != nil {
		t.Fatalf("FetchPendingAIJobs() error = %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("fetched %d jobs, want 2", len(jobs))
	}
	if jobs[0].ID != first.ID {
		t.Errorf("first fetched job = %s, want oldest created", jobs[0].ID)
	}

	// Limit is respected
	jobs, err = store.Jobs.FetchPendingAIJobs(1)
	if err != nil {
		t.Fatalf("FetchPendingAIJobs() error = %v", err)
	}
	if len(jobs) != 1 {
		t.Errorf("fetched %d jobs with limit 1, want 1", len(jobs))
	}
}

func TestJobStore_RetryLaw(t *testing.T) {
	store, err := NewStoreInMemory()
	if err != nil {
		t.Fatalf("NewStoreInMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	job := mustJob(t, store, "ent_1", 2)

	// First failure: attempts 0 -> 1, still below max, so retry_ai
	if err := store.Jobs.MarkFailed(job.ID, "provider unavailable"); err != nil {
		t.Fatalf("MarkFailed() error = %v", err)
	}
	got, err := store.Jobs.Get(job.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", got.Attempts)
	}
	if got.Status != models.JobRetryAI {
		t.Errorf("Status = %v, want retry_ai", got.Status)
	}
	if got.ErrorMessage != "provider unavailable" {
		t.Errorf("ErrorMessage = %q, want provider unavailable", got.ErrorMessage)
	}

	// Second failure reaches max_attempts: terminal failed
	if err := store.Jobs.MarkFailed(job.ID, "provider unavailable"); err != nil {
		t.Fatalf("MarkFailed() error = %v", err)
	}
	got, err = store.Jobs.Get(job.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", got.Attempts)
	}
	if got.Status != models.JobFailed {
		t.Errorf("Status = %v, want failed", got.Status)
	}

	// Failed jobs are never fetched again
	jobs, err := store.Jobs.FetchPendingAIJobs(10)
	if err != nil {
		t.Fatalf("FetchPendingAIJobs() error = %v", err)
	}
	for _, j := range jobs {
		if j.ID == job.ID {
			t.Error("failed job should be excluded from polling")
		}
	}
}

func TestJobStore_RescheduleDoesNotChargeAttempt(t *testing.T) {
	store, err := NewStoreInMemory()
	if err != nil {
		t.Fatalf("NewStoreInMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	job := mustJob(t, store, "ent_1", 3)

	if err := store.Jobs.Reschedule(job.ID, 30*time.Second); err != nil {
		t.Fatalf("Reschedule() error = %v", err)
	}

	got, err := store.Jobs.Get(job.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Attempts != 0 {
		t.Errorf("Attempts = %d, want 0 after rate-limit reschedule", got.Attempts)
	}
	if got.Status != models.JobRetryAI {
		t.Errorf("Status = %v, want retry_ai", got.Status)
	}

	// Not eligible until the delay passes
	jobs, err := store.Jobs.FetchPendingAIJobs(10)
	if err != nil {
		t.Fatalf("FetchPendingAIJobs() error = %v", err)
	}
	for _, j := range jobs {
		if j.ID == job.ID {
			t.Error("rescheduled job should not be eligible before its delay elapses")
		}
	}
}

func TestJobStore_MarkCompleted(t *testing.T) {
	store, err := NewStoreInMemory()
	if err != nil {
		t.Fatalf("NewStoreInMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	job := mustJob(t, store, "ent_1", 3)

	if err := store.Jobs.MarkCompleted(job.ID); err != nil {
		t.Fatalf("MarkCompleted() error = %v", err)
	}

	got, err := store.Jobs.Get(job.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != models.JobCompleted {
		t.Errorf("Status = %v, want completed", got.Status)
	}

	// Completing a terminal job is an illegal transition
	if err := store.Jobs.MarkCompleted(job.ID); err == nil {
		t.Error("expected error completing an already-completed job")
	}
}

func TestJobStore_DeleteCancellableForEntity(t *testing.T) {
	store, err := NewStoreInMemory()
	if err != nil {
		t.Fatalf("NewStoreInMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	pending := mustJob(t, store, "ent_1", 3)
	done := mustJob(t, store, "ent_1", 3)
	if err := store.Jobs.MarkCompleted(done.ID); err != nil {
		t.Fatalf("MarkCompleted() error = %v", err)
	}

	deleted, err := store.Jobs.DeleteCancellableForEntity("ent_1")
	if err != nil {
		t.Fatalf("DeleteCancellableForEntity() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1 (completed job untouched)", deleted)
	}

	got, err := store.Jobs.Get(pending.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Error("pending job should be deleted")
	}

	got, err = store.Jobs.Get(done.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Error("completed job should remain")
	}

	// Idempotent when nothing is cancellable
	deleted, err = store.Jobs.DeleteCancellableForEntity("ent_1")
	if err != nil {
		t.Fatalf("DeleteCancellableForEntity() error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0 on repeat cancel", deleted)
	}
}

func TestJobStore_CountByStatus(t *testing.T) {
	store, err := NewStoreInMemory()
	if err != nil {
		t.Fatalf("NewStoreInMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	mustJob(t, store, "ent_1", 3)
	mustJob(t, store, "ent_2", 3)
	done := mustJob(t, store, "ent_3", 3)
	if err := store.Jobs.MarkCompleted(done.ID); err != nil {
		t.Fatalf("MarkCompleted() error = %v", err)
	}

	counts, err := store.Jobs.CountByStatus()
	if err != nil {
		t.Fatalf("CountByStatus() error = %v", err)
	}
	if counts[models.JobPending] != 2 {
		t.Errorf("pending count = %d, want 2", counts[models.JobPending])
	}
	if counts[models.JobCompleted] != 1 {
		t.Errorf("completed count = %d, want 1", counts[models.JobCompleted])
	}
}
