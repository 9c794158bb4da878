package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

type indexedJob struct {
	index int
	job   Job
}

// Pool runs jobs on a fixed number of goroutines. Results are kept in
// submission order.
type Pool struct {
	workers int
	jobs    chan indexedJob
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	submitMu sync.Mutex // guards closed and sends on jobs
	closed   bool

	mu      sync.Mutex // guards results
	results []Result
}

// NewPool creates a new worker pool with the specified number of workers.
// Cancelling ctx stops the pool like Shutdown.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers: workers,
		jobs:    make(chan indexedJob, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start starts the worker pool
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case ij, ok := <-p.jobs:
			if !ok {
				return
			}
			result := ij.job.Execute(p.ctx)
			p.mu.Lock()
			p.results[ij.index] = result
			p.mu.Unlock()
		}
	}
}

// Submit queues a job. It reports false when the pool no longer accepts
// work.
func (p *Pool) Submit(job Job) bool {
	p.submitMu.Lock()
	defer p.submitMu.Unlock()

	if p.closed || p.ctx.Err() != nil {
		return false
	}

	p.mu.Lock()
	index := len(p.results)
	p.results = append(p.results, nil)
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
		return false
	case p.jobs <- indexedJob{index: index, job: job}:
		return true
	}
}

// Wait stops accepting jobs, waits for queued ones and returns every
// result in submission order. Jobs that never ran have a nil result.
func (p *Pool) Wait() []Result {
	p.submitMu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.submitMu.Unlock()

	p.wg.Wait()
	p.cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	results := make([]Result, len(p.results))
	copy(results, p.results)
	return results
}

// Shutdown shuts down the worker pool immediately
func (p *Pool) Shutdown() {
	p.cancel()

	p.submitMu.Lock()
	p.closed = true
	p.submitMu.Unlock()

	p.wg.Wait()
}
