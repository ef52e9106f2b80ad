// Package worker runs fire-and-forget tasks outside the request path.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Task is a unit of background work.
type Task func(ctx context.Context) error

// Dispatcher accepts background tasks without blocking the caller.
type Dispatcher interface {
	Submit(name string, task Task) bool
}

// Config holds pool configuration.
type Config struct {
	Workers   int // Number of concurrent workers
	QueueSize int // Pending tasks before new ones are dropped
}

// DefaultConfig returns default pool configuration.
func DefaultConfig() Config {
	return Config{
		Workers:   3,
		QueueSize: 100,
	}
}

type job struct {
	name string
	task Task
}

// Pool executes submitted tasks on a fixed set of workers. Failures and panics
// are reported to the pool logger and never reach the submitter.
type Pool struct {
	logger  *slog.Logger
	queue   chan job
	workers int
	wg      sync.WaitGroup
	mu      sync.RWMutex
	running bool
	stopped bool
}

var _ Dispatcher = (*Pool)(nil)

// NewPool creates a pool. Call Start before submitting work.
func NewPool(logger *slog.Logger, cfg Config) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultConfig().QueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{
		logger:  logger,
		queue:   make(chan job, cfg.QueueSize),
		workers: cfg.Workers,
	}
}

// Start launches the workers. Tasks run with ctx.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running || p.stopped {
		return
	}
	p.running = true

	p.logger.Info("starting worker pool", "workers", p.workers)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.work(ctx, i)
	}
}

// Stop rejects new tasks, lets the workers drain the queue and waits for them.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.running {
		p.stopped = true
		p.mu.Unlock()
		return
	}
	p.running = false
	p.stopped = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

// Submit queues task. It returns false when the task was dropped.
func (p *Pool) Submit(name string, task Task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.running {
		p.logger.Warn("worker pool not running, task dropped", "task", name)
		return false
	}

	select {
	case p.queue <- job{name: name, task: task}:
		return true
	default:
		p.logger.Warn("worker queue full, task dropped", "task", name)
		return false
	}
}

func (p *Pool) work(ctx context.Context, id int) {
	defer p.wg.Done()
	for j := range p.queue {
		if err := p.run(ctx, j); err != nil {
			p.logger.Error("background task failed", "task", j.name, "worker_id", id, "error", err)
		}
	}
}

func (p *Pool) run(ctx context.Context, j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return j.task(ctx)
}
