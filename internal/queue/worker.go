package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"recruit-backend/internal/shared/metrics"
	"recruit-backend/internal/shared/telemetry"
)

// Job is a unit of background work. Label identifies the job in logs and
// failure counters.
type Job struct {
	Label string
	Run   func(ctx context.Context) error
}

// ErrClosed is returned by Enqueue after Close has been called.
var ErrClosed = errors.New("queue closed")

// ErrFull is returned when the queue buffer is at capacity.
var ErrFull = errors.New("queue full")

// Stats is a snapshot of the worker's counters.
type Stats struct {
	Enqueued  uint64
	Processed uint64
	Failed    uint64
}

// Worker runs jobs strictly FIFO with concurrency one: a job completes
// fully before the next starts. A failing or panicking job is logged,
// counted, and dropped; the queue always advances. Construct explicitly
// and inject; there is no package-level instance.
type Worker struct {
	jobs    chan Job
	baseCtx context.Context

	mu     sync.RWMutex
	closed bool
	done   chan struct{}

	enqueued  atomic.Uint64
	processed atomic.Uint64
	failed    atomic.Uint64
}

// NewWorker starts a worker with the given buffer capacity. baseCtx is
// passed to every job; cancelling it does not interrupt a started job but
// lets job bodies observe shutdown.
func NewWorker(baseCtx context.Context, capacity int) *Worker {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	if capacity <= 0 {
		capacity = 64
	}
	w := &Worker{
		jobs:    make(chan Job, capacity),
		baseCtx: baseCtx,
		done:    make(chan struct{}),
	}
	go w.loop()
	return w
}

// Enqueue adds a job to the back of the queue. It does not block: a full
// buffer returns ErrFull so callers can surface backpressure instead of
// hanging the request path.
func (w *Worker) Enqueue(job Job) error {
	if job.Run == nil {
		return errors.New("job has no Run function")
	}

	// The read lock keeps the send ordered against Close, which would
	// otherwise close the channel under a concurrent send.
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrClosed
	}
	select {
	case w.jobs <- job:
		w.enqueued.Add(1)
		metrics.IncQueueEnqueued()
		return nil
	default:
		return ErrFull
	}
}

// Close stops intake, drains already-queued jobs, and waits for the
// consumer to finish. Safe to call more than once.
func (w *Worker) Close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.jobs)
	}
	w.mu.Unlock()
	<-w.done
}

// Stats returns a snapshot of the worker's counters.
func (w *Worker) Stats() Stats {
	return Stats{
		Enqueued:  w.enqueued.Load(),
		Processed: w.processed.Load(),
		Failed:    w.failed.Load(),
	}
}

func (w *Worker) loop() {
	defer close(w.done)
	for job := range w.jobs {
		w.runOne(job)
	}
}

func (w *Worker) runOne(job Job) {
	defer func() {
		w.processed.Add(1)
		if rec := recover(); rec != nil {
			w.failed.Add(1)
			metrics.IncQueueJobFailed()
			telemetry.Error("queue.job_panicked", map[string]any{
				"job":   job.Label,
				"error": fmt.Sprintf("%v", rec),
			})
		}
	}()

	if err := job.Run(w.baseCtx); err != nil {
		w.failed.Add(1)
		metrics.IncQueueJobFailed()
		telemetry.Error("queue.job_failed", map[string]any{
			"job":   job.Label,
			"error": err.Error(),
		})
	}
}
