package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/anityu45/footprintscan/internal/store"
)

// recordingExecutor counts executions per scan id and returns scripted
// errors.
type recordingExecutor struct {
	mu   sync.Mutex
	runs map[string]int
	errs map[string][]error
	done chan string
}

func newRecordingExecutor() *recordingExecutor {
	return &recordingExecutor{
		runs: make(map[string]int),
		errs: make(map[string][]error),
		done: make(chan string, 64),
	}
}

// script sets the error sequence for scanID; executions beyond the
// sequence succeed.
func (e *recordingExecutor) script(scanID string, errs ...error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errs[scanID] = errs
}

func (e *recordingExecutor) Execute(ctx context.Context, scanID string) error {
	e.mu.Lock()
	attempt := e.runs[scanID]
	e.runs[scanID]++
	var err error
	if attempt < len(e.errs[scanID]) {
		err = e.errs[scanID][attempt]
	}
	e.mu.Unlock()

	if err == nil {
		e.done <- scanID
	}
	return err
}

func (e *recordingExecutor) Reclaim(ctx context.Context, scanID string) error {
	return e.Execute(ctx, scanID)
}

func (e *recordingExecutor) runCount(scanID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runs[scanID]
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPoolExecutesSubmissions(t *testing.T) {
	t.Parallel()

	exec := newRecordingExecutor()
	pool := NewPool(exec, 2, 8, WithLogger(quietLogger()))
	pool.Start(context.Background())

	ids := []string{"scan-1", "scan-2", "scan-3"}
	for _, id := range ids {
		if err := pool.Submit(id); err != nil {
			t.Fatalf("Submit(%s) error = %v", id, err)
		}
	}

	seen := make(map[string]bool)
	timeout := time.After(5 * time.Second)
	for range ids {
		select {
		case id := <-exec.done:
			seen[id] = true
		case <-timeout:
			t.Fatal("timed out waiting for executions")
		}
	}
	for _, id := range ids {
		if !seen[id] {
			t.Errorf("%s was never executed", id)
		}
	}

	if err := pool.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}

func TestPoolRetriesTransientStoreFailures(t *testing.T) {
	t.Parallel()

	exec := newRecordingExecutor()
	exec.script("flaky", store.ErrStoreUnavailable, store.ErrStoreUnavailable)

	pool := NewPool(exec, 1, 4,
		WithLogger(quietLogger()),
		WithRetry(3, time.Millisecond))
	pool.Start(context.Background())

	if err := pool.Submit("flaky"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	select {
	case <-exec.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for retried execution")
	}
	if got := exec.runCount("flaky"); got != 3 {
		t.Errorf("run count = %d, want 3 (two failures, one success)", got)
	}

	_ = pool.Shutdown(context.Background())
}

// fencedExecutor models a coordinator over a store whose claim fence
// locks out plain re-execution once a failed attempt has claimed the
// scan. Outages make the terminal write fail after the claim is taken.
type fencedExecutor struct {
	mu        sync.Mutex
	outages   int
	claimed   bool
	completed bool
	done      chan struct{}
}

func newFencedExecutor(outages int) *fencedExecutor {
	return &fencedExecutor{outages: outages, done: make(chan struct{})}
}

func (e *fencedExecutor) Execute(ctx context.Context, scanID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.claimed {
		return store.ErrScanInFlight
	}
	return e.attempt()
}

func (e *fencedExecutor) Reclaim(ctx context.Context, scanID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.attempt()
}

func (e *fencedExecutor) attempt() error {
	e.claimed = true
	if e.outages > 0 {
		e.outages--
		return store.ErrStoreUnavailable
	}
	e.completed = true
	close(e.done)
	return nil
}

func (e *fencedExecutor) isCompleted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.completed
}

func TestPoolReclaimsAfterStoreOutage(t *testing.T) {
	t.Parallel()

	// Two outages in a row: the first attempt claims the scan and fails
	// its terminal write, the first retry fails too. The scan must still
	// reach a terminal state once the store recovers instead of being
	// dropped as already claimed.
	exec := newFencedExecutor(2)
	pool := NewPool(exec, 1, 4,
		WithLogger(quietLogger()),
		WithRetry(3, time.Millisecond))
	pool.Start(context.Background())

	if err := pool.Submit("stranded"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	select {
	case <-exec.done:
	case <-time.After(5 * time.Second):
		t.Fatal("scan never reached a terminal state after the store recovered")
	}
	if !exec.isCompleted() {
		t.Error("scan was not completed")
	}

	_ = pool.Shutdown(context.Background())
}

func TestPoolDropsUnknownScans(t *testing.T) {
	t.Parallel()

	exec := newRecordingExecutor()
	exec.script("ghost", store.ErrScanNotFound, store.ErrScanNotFound)

	pool := NewPool(exec, 1, 4,
		WithLogger(quietLogger()),
		WithRetry(3, time.Millisecond))
	pool.Start(context.Background())

	if err := pool.Submit("ghost"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	// Drain with a second scan so we know the first was processed.
	if err := pool.Submit("ok"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	select {
	case <-exec.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out")
	}

	if got := exec.runCount("ghost"); got != 1 {
		t.Errorf("ghost run count = %d, want 1 (no retries for missing records)", got)
	}

	_ = pool.Shutdown(context.Background())
}

func TestPoolBackpressure(t *testing.T) {
	t.Parallel()

	exec := newRecordingExecutor()
	// Never started, so nothing drains the queue.
	pool := NewPool(exec, 1, 2, WithLogger(quietLogger()))

	if err := pool.Submit("a"); err != nil {
		t.Fatalf("Submit(a) error = %v", err)
	}
	if err := pool.Submit("b"); err != nil {
		t.Fatalf("Submit(b) error = %v", err)
	}
	if err := pool.Submit("c"); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("Submit(c) error = %v, want ErrQueueFull", err)
	}
}

func TestPoolSubmitAfterShutdown(t *testing.T) {
	t.Parallel()

	exec := newRecordingExecutor()
	pool := NewPool(exec, 1, 4, WithLogger(quietLogger()))
	pool.Start(context.Background())

	if err := pool.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if err := pool.Submit("late"); !errors.Is(err, ErrPoolClosed) {
		t.Fatalf("Submit() error = %v, want ErrPoolClosed", err)
	}
}
