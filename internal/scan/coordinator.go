package scan

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/anityu45/footprintscan/internal/aggregate"
	"github.com/anityu45/footprintscan/internal/model"
	"github.com/anityu45/footprintscan/internal/probe"
)

// Store is the persistence surface the coordinator needs. *store.Store
// satisfies it; tests substitute in-memory fakes.
type Store interface {
	Get(ctx context.Context, scanID string) (*model.ScanRecord, error)
	SetRunning(ctx context.Context, scanID string) error
	Reclaim(ctx context.Context, scanID string) error
	Complete(ctx context.Context, scanID string, findings []model.Finding, score int) error
	Fail(ctx context.Context, scanID string) error
}

// Coordinator executes scans: claim, fan out, aggregate, persist.
type Coordinator struct {
	store      Store
	registry   *probe.Registry
	aggregator *aggregate.Aggregator
	logger     *slog.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger for scan progress and probe failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// NewCoordinator creates a Coordinator over the given store, probe
// registry and aggregator.
func NewCoordinator(st Store, registry *probe.Registry, aggregator *aggregate.Aggregator, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:      st,
		registry:   registry,
		aggregator: aggregator,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute runs the scan identified by scanID to a terminal state.
//
// The record must already exist; a missing record is the caller's bug
// and surfaces as the store's not-found error. The fenced transition to
// Running refuses concurrent claims, so redelivered executions of the
// same scan are safe.
//
// Probe failures never fail the scan. A scan whose probes all error
// still completes, with zero findings and a zero score.
func (c *Coordinator) Execute(ctx context.Context, scanID string) error {
	return c.execute(ctx, scanID, false)
}

// Reclaim re-runs a scan whose claim a previous invocation abandoned,
// typically because a store outage interrupted the terminal write and
// left the record Running. It forces the transition past the fence, so
// the caller must know no live invocation holds the scan.
func (c *Coordinator) Reclaim(ctx context.Context, scanID string) error {
	return c.execute(ctx, scanID, true)
}

func (c *Coordinator) execute(ctx context.Context, scanID string, reclaim bool) error {
	rec, err := c.store.Get(ctx, scanID)
	if err != nil {
		return fmt.Errorf("load scan %s: %w", scanID, err)
	}

	claim := c.store.SetRunning
	if reclaim {
		claim = c.store.Reclaim
	}
	if err := claim(ctx, scanID); err != nil {
		return fmt.Errorf("claim scan %s: %w", scanID, err)
	}

	started := time.Now()
	c.logger.Info("scan started",
		"scan_id", scanID,
		"has_email", rec.Request.Email != "",
		"has_username", rec.Request.Username != "",
		"has_domain", rec.Request.Domain != "")

	signals := c.collect(ctx, rec.Request)
	findings, score := c.aggregator.Aggregate(signals)

	if err := c.store.Complete(ctx, scanID, findings, score); err != nil {
		// Best effort: leave a Failed marker so pollers are not stuck
		// on Running forever.
		if failErr := c.store.Fail(ctx, scanID); failErr != nil {
			c.logger.Error("mark scan failed", "scan_id", scanID, "error", failErr)
		}
		return fmt.Errorf("complete scan %s: %w", scanID, err)
	}

	c.logger.Info("scan completed",
		"scan_id", scanID,
		"signals", len(signals),
		"findings", model.CountDisplayFindings(findings),
		"risk_score", score,
		"duration", time.Since(started))
	return nil
}

// collect fans the applicable probes out concurrently and gathers their
// signals. Signals append in probe completion order; the aggregator
// re-partitions them, so cross-probe ordering here does not matter.
func (c *Coordinator) collect(ctx context.Context, req model.ScanRequest) []model.Signal {
	dispatches := c.registry.For(req)

	var mu sync.Mutex
	signals := make([]model.Signal, 0)

	g, ctx := errgroup.WithContext(ctx)
	for _, d := range dispatches {
		g.Go(func() error {
			probeCtx, cancel := context.WithTimeout(ctx, d.Probe.Timeout())
			defer cancel()

			probeSignals, err := d.Probe.Run(probeCtx, d.Value)
			if err != nil {
				// Degraded, not fatal. Partial signals still count.
				c.logger.Warn("probe failed", "probe", d.Probe.Name(), "error", err)
			}
			if len(probeSignals) > 0 {
				mu.Lock()
				signals = append(signals, probeSignals...)
				mu.Unlock()
			}
			// Never propagate: one probe's failure must not cancel the
			// siblings through the group context.
			return nil
		})
	}
	_ = g.Wait()

	return signals
}
