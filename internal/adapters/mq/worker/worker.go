// Package worker runs the video-processing pool that drains the job queue.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/touchline/scoutbase/internal/adapters/mq/queue"
	"github.com/touchline/scoutbase/internal/domain/model"
	"github.com/touchline/scoutbase/internal/domain/types"
	"github.com/touchline/scoutbase/pkg/logger"
	"github.com/touchline/scoutbase/pkg/metrics"
)

const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	metricsUpdateInterval   = 5 * time.Second
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Job abstracts what workers read off the queue.
type Job = queue.Job

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// JobStore persists job status transitions.
type JobStore interface {
	UpdateJob(ctx context.Context, j *model.ProcessingJob) error
}

// Processor runs the clip pipeline for one job.
type Processor interface {
	Process(ctx context.Context, j *Job) (model.JobResult, error)
}

// Worker processes jobs until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for the in-process queue.
type InMemoryWorker struct {
	queue     Queue
	processor Processor
	jobs      JobStore
	name      string

	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	processed *atomic.Int64 // shared with the owning pool, may be nil

	logger logger.Logger
}

// NewInMemoryWorker creates a worker with configuration options.
func NewInMemoryWorker(q Queue, processor Processor, jobs JobStore, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		processor: processor,
		jobs:      jobs,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobChan:
			if !ok {
				return
			}
			if err := w.processJob(ctx, j); err != nil {
				w.logger.Error(ctx, "error processing job", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.stopOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob runs one job through the clip pipeline and records the outcome.
func (w *InMemoryWorker) processJob(ctx context.Context, j Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordJobProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	j.Status = types.JobRunning
	j.StartedAt = time.Now().UTC()
	if err := w.jobs.UpdateJob(ctx, &j); err != nil {
		metrics.RecordJobFailed()
		metrics.RecordErrorByComponent("worker", "status_update_error")
		return fmt.Errorf("marking job %s running: %w", j.ID, err)
	}

	result, err := w.processor.Process(ctx, &j)
	j.FinishedAt = time.Now().UTC()
	if err != nil {
		j.Status = types.JobFailed
		j.Error = err.Error()
		metrics.RecordJobFailed()
		metrics.RecordErrorByComponent("worker", "processing_error")
		metrics.RecordErrorByType("processing_error", "high")
		w.logger.Error(ctx, "clip pipeline failed",
			logger.String("jobID", j.ID),
			logger.Error(err),
		)
	} else {
		j.Status = types.JobDone
		j.Result = result
		metrics.RecordJobProcessed()
		if w.processed != nil {
			w.processed.Add(1)
		}
	}

	if uerr := w.jobs.UpdateJob(ctx, &j); uerr != nil {
		metrics.RecordErrorByComponent("worker", "status_update_error")
		return fmt.Errorf("recording outcome of job %s: %w", j.ID, uerr)
	}
	return err
}

// Pool manages multiple workers.
type Pool struct {
	workers   []*InMemoryWorker
	queue     Queue
	processor Processor
	jobs      JobStore

	shutdown chan struct{}
	done     chan struct{}

	processed         atomic.Int64
	lastProcessedTime time.Time

	logger logger.Logger
}

// NewPool creates a worker pool. A non-positive workerCount sizes the pool
// from the CPU count.
func NewPool(workerCount int, q Queue, processor Processor, jobs JobStore) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers:           make([]*InMemoryWorker, workerCount),
		queue:             q,
		processor:         processor,
		jobs:              jobs,
		shutdown:          make(chan struct{}),
		done:              make(chan struct{}),
		lastProcessedTime: time.Now(),
		logger:            logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		w := NewInMemoryWorker(q, processor, jobs, WithName("worker-"+strconv.Itoa(i)))
		w.processed = &p.processed
		p.workers[i] = w
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(workerCount)
	metrics.UpdateWorkerJobsPerSecond(0)
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	go p.startMetricsUpdater(ctx)
}

func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.updateMetrics()
		}
	}
}

func (p *Pool) updateMetrics() {
	now := time.Now()
	elapsed := now.Sub(p.lastProcessedTime).Seconds()
	if elapsed > 0 {
		metrics.UpdateWorkerJobsPerSecond(float64(p.processed.Swap(0)) / elapsed)
	}
	p.lastProcessedTime = now
}

// Stop stops all workers without draining the queue.
func (p *Pool) Stop() {
	close(p.shutdown)

	for _, w := range p.workers {
		w.stopOnce.Do(func() { close(w.shutdown) })
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown closes the queue and waits for workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	close(p.shutdown)

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
