// ABOUTME: Background job storage with retry bookkeeping and polling queries
// ABOUTME: Status transitions rely on single-statement atomicity; failed jobs are never re-polled
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mandelbro/devcontext-local-sub001/internal/models"
)

// JobStore handles background enrichment job persistence
type JobStore struct {
	db *DB
}

// NewJobStore creates a new JobStore
func NewJobStore(db *DB) *JobStore {
	return &JobStore{db: db}
}

// Create inserts a new job row
func (s *JobStore) Create(job *models.BackgroundJob) error {
	var lastAttempted interface{}
	if job.LastAttemptedAt != nil {
		lastAttempted = *job.LastAttemptedAt
	}

	_, err := s.db.Exec(`
		INSERT INTO background_jobs (id, target_id, target_type, task_type, status,
			attempts, max_attempts, last_attempted_at, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, job.ID, job.TargetID, string(job.TargetType), string(job.TaskType),
		string(job.Status), job.Attempts, job.MaxAttempts, lastAttempted,
		nullIfEmpty(job.ErrorMessage), job.CreatedAt)
	return err
}

// Get retrieves a job by ID, returning (nil, nil) when missing
func (s *JobStore) Get(jobID string) (*models.BackgroundJob, error) {
	rows, err := s.db.Query(selectJobColumns+" WHERE id = ?", jobID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	jobs, err := scanJobs(rows)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, nil
	}
	return &jobs[0], nil
}

const selectJobColumns = `
	SELECT id, target_id, target_type, task_type, status, attempts,
		max_attempts, last_attempted_at, error_message, created_at
	FROM background_jobs`

// FetchPendingAIJobs returns up to limit eligible jobs: pending, or retry_ai
// with attempts below max_attempts. Terminal jobs are never returned. Ordered
// by (created_at, attempts, last_attempted_at) so older, less-retried work
// runs first.
func (s *JobStore) FetchPendingAIJobs(limit int) ([]models.BackgroundJob, error) {
	now := time.Now().UTC()
	rows, err := s.db.Query(selectJobColumns+`
		WHERE (status = ? OR (status = ? AND attempts < max_attempts))
			AND (last_attempted_at IS NULL OR last_attempted_at <= ?)
		ORDER BY created_at ASC, attempts ASC, last_attempted_at ASC
		LIMIT ?
	`, string(models.JobPending), string(models.JobRetryAI), now, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanJobs(rows)
}

// MarkCompleted transitions a job to completed
func (s *JobStore) MarkCompleted(jobID string) error {
	return s.transition(jobID, models.JobCompleted, `
		UPDATE background_jobs
		SET status = ?, last_attempted_at = ?, error_message = NULL
		WHERE id = ?
	`, string(models.JobCompleted), time.Now().UTC(), jobID)
}

// MarkFailed charges one attempt and transitions to retry_ai, or to the
// terminal failed status once attempts reach max_attempts
func (s *JobStore) MarkFailed(jobID, errorMessage string) error {
	job, err := s.Get(jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("job not found: %s", jobID)
	}

	next := models.JobRetryAI
	if job.Attempts+1 >= job.MaxAttempts {
		next = models.JobFailed
	}
	if !models.CanTransition(job.Status, next) {
		return fmt.Errorf("illegal job transition %s -> %s for %s", job.Status, next, jobID)
	}

	_, err = s.db.Exec(`
		UPDATE background_jobs
		SET status = ?, attempts = attempts + 1, last_attempted_at = ?, error_message = ?
		WHERE id = ?
	`, string(next), time.Now().UTC(), errorMessage, jobID)
	return err
}

// Reschedule pushes a rate-limited job's next eligibility forward without
// charging an attempt
func (s *JobStore) Reschedule(jobID string, delay time.Duration) error {
	_, err := s.db.Exec(`
		UPDATE background_jobs
		SET status = ?, last_attempted_at = ?
		WHERE id = ? AND status IN (?, ?)
	`, string(models.JobRetryAI), time.Now().UTC().Add(delay), jobID,
		string(models.JobPending), string(models.JobRetryAI))
	return err
}

// transition runs an update after checking the transition table
func (s *JobStore) transition(jobID string, to models.JobStatus, query string, args ...interface{}) error {
	job, err := s.Get(jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("job not found: %s", jobID)
	}
	if !models.CanTransition(job.Status, to) {
		return fmt.Errorf("illegal job transition %s -> %s for %s", job.Status, to, jobID)
	}
	_, err = s.db.Exec(query, args...)
	return err
}

// DeleteCancellableForEntity deletes pending and retry_ai jobs targeting an
// entity. Completed and failed jobs are untouched. Returns the deleted count.
func (s *JobStore) DeleteCancellableForEntity(targetID string) (int64, error) {
	result, err := s.db.Exec(`
		DELETE FROM background_jobs
		WHERE target_id = ? AND status IN (?, ?)
	`, targetID, string(models.JobPending), string(models.JobRetryAI))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// CountByStatus returns job counts keyed by status
func (s *JobStore) CountByStatus() (map[models.JobStatus]int, error) {
	rows, err := s.db.Query(`
		SELECT status, COUNT(*)
		FROM background_jobs
		GROUP BY status
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[models.JobStatus]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[models.JobStatus(status)] = count
	}
	return counts, rows.Err()
}

// scanJobs scans rows into a slice of BackgroundJob
func scanJobs(rows *sql.Rows) ([]models.BackgroundJob, error) {
	var jobs []models.BackgroundJob
	for rows.Next() {
		var (
			job           models.BackgroundJob
			targetType    string
			taskType      string
			status        string
			lastAttempted sql.NullTime
			errorMessage  sql.NullString
		)
		if err := rows.Scan(&job.ID, &job.TargetID, &targetType, &taskType,
			&status, &job.Attempts, &job.MaxAttempts, &lastAttempted,
			&errorMessage, &job.CreatedAt); err != nil {
			return nil, err
		}

		job.TargetType = models.TargetType(targetType)
		job.TaskType = models.TaskType(taskType)
		job.Status = models.JobStatus(status)
		job.ErrorMessage = errorMessage.String
		if lastAttempted.Valid {
			t := lastAttempted.Time
			job.LastAttemptedAt = &t
		}

		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
