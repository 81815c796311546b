package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/anityu45/footprintscan/internal/store"
)

// Executor runs one scan to a terminal state. Reclaim is Execute past
// the claim fence, for retrying a scan this pool's own failed attempt
// left Running. *scan.Coordinator satisfies it.
type Executor interface {
	Execute(ctx context.Context, scanID string) error
	Reclaim(ctx context.Context, scanID string) error
}

// Pool drains a bounded queue of scan ids through a fixed number of
// worker goroutines.
type Pool struct {
	executor   Executor
	queue      chan string
	workers    int
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger

	group  *errgroup.Group
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// Option configures a Pool.
type Option func(*Pool)

// WithLogger sets the pool's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) {
		p.logger = logger
	}
}

// WithRetry sets the retry budget for transient store failures.
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(p *Pool) {
		p.maxRetries = maxRetries
		p.retryDelay = delay
	}
}

// NewPool creates a Pool with the given parallelism and queue depth.
// The pool is idle until Start is called.
func NewPool(executor Executor, workers, queueSize int, opts ...Option) *Pool {
	p := &Pool{
		executor:   executor,
		queue:      make(chan string, queueSize),
		workers:    workers,
		maxRetries: 3,
		retryDelay: 2 * time.Second,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the worker goroutines. They drain the queue until
// Shutdown is called.
func (p *Pool) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	g, ctx := errgroup.WithContext(ctx)
	p.group = g
	for i := 0; i < p.workers; i++ {
		g.Go(func() error {
			p.drain(ctx)
			return nil
		})
	}
}

// Submit enqueues a scan id for execution. It never blocks: a full
// queue returns ErrQueueFull so the caller can shed load.
func (p *Pool) Submit(scanID string) error {
	// The lock spans the send so Submit can never race Shutdown's
	// close of the queue. The send is non-blocking, so holding the
	// lock is cheap.
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.queue <- scanID:
		return nil
	default:
		return ErrQueueFull
	}
}

// Shutdown stops accepting submissions, lets the workers finish the
// queued scans, and waits for them up to ctx's deadline.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		_ = p.group.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		// Deadline hit: cancel in-flight scans and give up.
		p.cancel()
		return ctx.Err()
	}
}

// drain executes queued scans until the queue closes or ctx ends.
func (p *Pool) drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case scanID, ok := <-p.queue:
			if !ok {
				return
			}
			p.run(ctx, scanID)
		}
	}
}

// run executes one scan, retrying transient store failures.
func (p *Pool) run(ctx context.Context, scanID string) {
	reclaim := false
	for attempt := 0; ; attempt++ {
		var err error
		if reclaim {
			err = p.executor.Reclaim(ctx, scanID)
		} else {
			err = p.executor.Execute(ctx, scanID)
		}
		switch {
		case err == nil:
			return
		case errors.Is(err, store.ErrScanNotFound):
			// The record vanished; nothing to retry against.
			p.logger.Warn("dropping scan with no record", "scan_id", scanID)
			return
		case errors.Is(err, store.ErrScanInFlight):
			// Someone else holds the claim; the redelivery was
			// redundant, not an error.
			p.logger.Info("scan already claimed", "scan_id", scanID)
			return
		case errors.Is(err, store.ErrStoreUnavailable) && attempt < p.maxRetries:
			// The failed attempt may have claimed the scan before the
			// store went away. A fenced retry would be locked out by
			// that abandoned claim, so the retry takes it over.
			reclaim = true
			p.logger.Warn("retrying scan after store failure",
				"scan_id", scanID, "attempt", attempt+1, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.retryDelay):
			}
		default:
			p.logger.Error("scan execution failed", "scan_id", scanID, "error", err)
			return
		}
	}
}
