// ABOUTME: Timer-driven enrichment job queue with bounded concurrency
// ABOUTME: Polls eligible jobs, fans out workers, and applies the retry/rate-limit policy
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mandelbro/devcontext-local-sub001/internal/llm"
	"github.com/mandelbro/devcontext-local-sub001/internal/models"
	"github.com/mandelbro/devcontext-local-sub001/internal/storage/sqlite"
	"github.com/mandelbro/devcontext-local-sub001/internal/util"
)

// EnrichmentService is the narrow contract the queue drives per job
type EnrichmentService interface {
	Enrich(ctx context.Context, input llm.EnrichmentInput) (*llm.EnrichmentResult, error)
}

// Options tunes the queue's polling loop
type Options struct {
	// PollInterval is how often the queue looks for eligible jobs
	PollInterval time.Duration
	// Concurrency bounds simultaneous enrichment calls within one tick
	Concurrency int
	// BatchSize caps how many jobs one tick claims
	BatchSize int
	// DispatchDelay spaces out worker launches to respect provider rate limits
	DispatchDelay time.Duration
	// RetryBaseDelay seeds the backoff applied after a charged failure
	RetryBaseDelay time.Duration
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = 5 * time.Second
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 1
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 10
	}
	if o.DispatchDelay < 0 {
		o.DispatchDelay = 0
	}
	if o.RetryBaseDelay <= 0 {
		o.RetryBaseDelay = time.Second
	}
	return o
}

// Queue polls the job table and drives enrichment workers.
// One queue per process; Start is idempotent and Stop is immediate.
type Queue struct {
	store *sqlite.Store

	mu         sync.Mutex
	enrichment EnrichmentService
	running    bool
	stop       chan struct{}

	// inflight covers every claimed job through its final status write
	inflight sync.WaitGroup
}

// NewQueue creates a queue over the given store
func NewQueue(store *sqlite.Store) *Queue {
	return &Queue{store: store}
}

// SetEnrichmentService installs the collaborator workers call.
// Jobs are not processed until a service is set.
func (q *Queue) SetEnrichmentService(service EnrichmentService) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.enrichment = service
}

// Enqueue persists a new job
func (q *Queue) Enqueue(job *models.BackgroundJob) error {
	if err := q.store.Jobs.Create(job); err != nil {
		return fmt.Errorf("enqueuing job for %s: %w", job.TargetID, err)
	}
	return nil
}

// CancelForEntity deletes pending and retrying jobs targeting an entity.
// Completed/failed jobs and jobs already inside a provider call are untouched;
// a cancelled in-flight job simply cannot be re-claimed.
func (q *Queue) CancelForEntity(entityID string) (int64, error) {
	deleted, err := q.store.Jobs.DeleteCancellableForEntity(entityID)
	if err != nil {
		return 0, fmt.Errorf("cancelling jobs for %s: %w", entityID, err)
	}
	return deleted, nil
}

// Start launches the polling loop. Calling Start while running is a no-op
// that keeps the existing loop and its options.
func (q *Queue) Start(opts Options) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		log.Printf("[JobQueue] already running, Start ignored")
		return
	}
	opts = opts.withDefaults()
	q.running = true
	q.stop = make(chan struct{})
	go q.loop(opts, q.stop)
	log.Printf("[JobQueue] started: poll=%s concurrency=%d batch=%d", opts.PollInterval, opts.Concurrency, opts.BatchSize)
}

// Stop halts polling immediately. In-flight jobs finish; no new batch starts.
func (q *Queue) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.running {
		return
	}
	close(q.stop)
	q.running = false
	log.Printf("[JobQueue] stopped")
}

// Drain blocks until every in-flight job has finished or the context expires
func (q *Queue) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		q.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Counts returns the number of jobs per status
func (q *Queue) Counts() (map[models.JobStatus]int, error) {
	return q.store.Jobs.CountByStatus()
}

func (q *Queue) loop(opts Options, stop chan struct{}) {
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			q.tick(opts, stop)
		}
	}
}

// tick claims one batch and fans it out, waiting for the whole batch before
// returning so simultaneous provider calls stay bounded regardless of backlog.
func (q *Queue) tick(opts Options, stop chan struct{}) {
	q.mu.Lock()
	service := q.enrichment
	q.mu.Unlock()
	if service == nil {
		return
	}

	batch, err := q.store.Jobs.FetchPendingAIJobs(opts.BatchSize)
	if err != nil {
		log.Printf("[JobQueue] poll failed: %v", err)
		return
	}
	if len(batch) == 0 {
		return
	}

	sem := make(chan struct{}, opts.Concurrency)
	var batchWG sync.WaitGroup
	for i := range batch {
		select {
		case <-stop:
			batchWG.Wait()
			return
		default:
		}

		job := batch[i]
		sem <- struct{}{}
		batchWG.Add(1)
		q.inflight.Add(1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[JobQueue] job %s panicked: %v", job.ID, r)
					q.fail(job, fmt.Sprintf("panic: %v", r), opts)
				}
				<-sem
				batchWG.Done()
				q.inflight.Done()
			}()
			q.process(job, service, opts)
		}()

		if opts.DispatchDelay > 0 && i < len(batch)-1 {
			time.Sleep(opts.DispatchDelay)
		}
	}
	batchWG.Wait()
}

// process runs one job end to end; its errors never leave this function
func (q *Queue) process(job models.BackgroundJob, service EnrichmentService, opts Options) {
	input, err := q.loadTarget(job)
	if err != nil {
		log.Printf("[JobQueue] job %s target load failed: %v", job.ID, err)
		q.fail(job, err.Error(), opts)
		return
	}
	if input == nil {
		// Target deleted after enqueue; nothing left to enrich
		log.Printf("[JobQueue] job %s target %s gone, completing as no-op", job.ID, job.TargetID)
		if err := q.store.Jobs.MarkCompleted(job.ID); err != nil {
			log.Printf("[JobQueue] job %s completion write failed: %v", job.ID, err)
		}
		return
	}

	result, err := service.Enrich(context.Background(), *input)
	if err != nil {
		q.handleEnrichError(job, err, opts)
		return
	}

	if err := q.writeBack(job, result); err != nil {
		log.Printf("[JobQueue] job %s write-back failed: %v", job.ID, err)
		q.fail(job, err.Error(), opts)
		return
	}
	if err := q.store.Jobs.MarkCompleted(job.ID); err != nil {
		log.Printf("[JobQueue] job %s completion write failed: %v", job.ID, err)
	}
}

// handleEnrichError applies the retry policy: rate limits reschedule without
// charging an attempt; anything else charges one.
func (q *Queue) handleEnrichError(job models.BackgroundJob, err error, opts Options) {
	var rateLimit *llm.RateLimitError
	if errors.As(err, &rateLimit) {
		log.Printf("[JobQueue] job %s rate limited, retrying in %s", job.ID, rateLimit.RetryAfter)
		if rerr := q.store.Jobs.Reschedule(job.ID, rateLimit.RetryAfter); rerr != nil {
			log.Printf("[JobQueue] job %s reschedule failed: %v", job.ID, rerr)
		}
		return
	}
	log.Printf("[JobQueue] job %s failed: %v", job.ID, err)
	q.fail(job, err.Error(), opts)
}

// fail charges an attempt and, when the job survives, pushes its next
// eligibility out by an exponential backoff.
func (q *Queue) fail(job models.BackgroundJob, message string, opts Options) {
	if err := q.store.Jobs.MarkFailed(job.ID, message); err != nil {
		log.Printf("[JobQueue] job %s failure write failed: %v", job.ID, err)
		return
	}
	updated, err := q.store.Jobs.Get(job.ID)
	if err != nil || updated == nil || updated.IsTerminal() {
		return
	}
	delay := util.RetryDelay(opts.RetryBaseDelay, updated.Attempts)
	if err := q.store.Jobs.Reschedule(job.ID, delay); err != nil {
		log.Printf("[JobQueue] job %s backoff write failed: %v", job.ID, err)
	}
}

// loadTarget builds the enrichment input from the job's entity or document.
// Returns (nil, nil) when the target row no longer exists.
func (q *Queue) loadTarget(job models.BackgroundJob) (*llm.EnrichmentInput, error) {
	switch job.TargetType {
	case models.TargetEntity:
		entity, err := q.store.Entities.Get(job.TargetID)
		if err != nil {
			return nil, err
		}
		if entity == nil {
			return nil, nil
		}
		return &llm.EnrichmentInput{
			Kind:       "entity",
			Name:       entity.Name,
			FilePath:   entity.FilePath,
			Language:   entity.Language,
			Content:    entity.RawContent,
			BudgetHint: 150,
		}, nil
	case models.TargetDocument:
		doc, err := q.store.Documents.Get(job.TargetID)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, nil
		}
		return &llm.EnrichmentInput{
			Kind:       "document",
			Name:       doc.Title,
			FilePath:   doc.FilePath,
			Content:    doc.RawContent,
			BudgetHint: 150,
		}, nil
	default:
		return nil, fmt.Errorf("unknown target type %q", job.TargetType)
	}
}

// writeBack stores the summary on the target row and replaces its AI keywords
func (q *Queue) writeBack(job models.BackgroundJob, result *llm.EnrichmentResult) error {
	switch job.TargetType {
	case models.TargetEntity:
		if err := q.store.Entities.UpdateEnrichment(job.TargetID, result.Summary, models.EnrichmentCompleted); err != nil {
			return err
		}
		keywords := make([]models.EntityKeyword, 0, len(result.Keywords))
		now := time.Now().UTC()
		for _, kw := range result.Keywords {
			keywords = append(keywords, models.EntityKeyword{
				EntityID:  job.TargetID,
				Keyword:   kw.Keyword,
				Weight:    kw.Weight,
				Kind:      models.KeywordAI,
				CreatedAt: now,
			})
		}
		return q.store.Keywords.ReplaceForEntity(job.TargetID, models.KeywordAI, keywords)
	case models.TargetDocument:
		return q.store.Documents.UpdateEnrichment(job.TargetID, result.Summary, models.EnrichmentCompleted)
	default:
		return fmt.Errorf("unknown target type %q", job.TargetType)
	}
}
