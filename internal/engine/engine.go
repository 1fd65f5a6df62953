package engine

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"solana-sandwich-engine/internal/analyzer"
	"solana-sandwich-engine/internal/dedup"
	"solana-sandwich-engine/internal/domain"
	"solana-sandwich-engine/internal/observability"
)

// Executor runs one admitted plan to settlement.
type Executor interface {
	Execute(ctx context.Context, plan *domain.TradePlan) *domain.ExecutionRecord
}

// Options configures an Engine.
type Options struct {
	Source     EventSource
	Dedup      *dedup.Deduplicator
	Analyzer   *analyzer.Analyzer
	Controller Executor
	Metrics    *observability.Metrics
	Logger     *log.Logger
	// DryRun logs execute verdicts instead of running them.
	DryRun bool
}

// Engine drives the event pipeline: deduplicate the stream, analyze each
// novel candidate, and hand execute verdicts to the controller. Each
// admitted execution runs as an independent goroutine; the controller's
// active set bounds how many run at once.
type Engine struct {
	source     EventSource
	dedup      *dedup.Deduplicator
	analyzer   *analyzer.Analyzer
	controller Executor
	metrics    *observability.Metrics
	logger     *log.Logger
	dryRun     bool

	wg sync.WaitGroup
}

// New creates an Engine.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[engine] ", log.LstdFlags)
	}
	d := opts.Dedup
	if d == nil {
		d = dedup.New(0)
	}
	return &Engine{
		source:     opts.Source,
		dedup:      d,
		analyzer:   opts.Analyzer,
		controller: opts.Controller,
		metrics:    opts.Metrics,
		logger:     logger,
		dryRun:     opts.DryRun,
	}
}

// Run consumes the event stream until the context is cancelled or the
// stream closes. On shutdown it stops admitting new work and waits for
// in-flight executions to settle.
func (e *Engine) Run(ctx context.Context) error {
	events, err := e.source.Events(ctx)
	if err != nil {
		return fmt.Errorf("open event stream: %w", err)
	}

	e.logger.Printf("engine started, dry_run=%v", e.dryRun)

	for {
		select {
		case <-ctx.Done():
			e.logger.Printf("shutting down, waiting for in-flight executions")
			e.wg.Wait()
			return nil
		case ev, ok := <-events:
			if !ok {
				e.logger.Printf("event stream closed, waiting for in-flight executions")
				e.wg.Wait()
				return nil
			}
			e.handle(ctx, ev)
		}
	}
}

func (e *Engine) handle(ctx context.Context, ev domain.CandidateEvent) {
	if e.metrics != nil {
		e.metrics.EventsObserved.Inc()
		e.metrics.LastEventTimestamp.Set(float64(ev.ObservedAt) / 1000)
		e.metrics.HighestSlotSeen.Set(float64(ev.Slot))
	}

	if !e.dedup.Observe(ev.Signature) {
		if e.metrics != nil {
			e.metrics.DuplicatesSkipped.Inc()
		}
		return
	}
	if e.metrics != nil {
		e.metrics.DedupWindowSize.Set(float64(e.dedup.Len()))
	}

	start := time.Now()
	verdict := e.analyzer.Analyze(ctx, ev)
	if e.metrics != nil {
		e.metrics.AnalysisLatency.Observe(time.Since(start).Seconds())
		e.metrics.RecordVerdict(string(verdict.Kind))
	}

	switch verdict.Kind {
	case domain.VerdictExecute:
		e.dispatch(ctx, verdict.Plan)
	case domain.VerdictUnprofitable, domain.VerdictOutOfScope:
		// Normal scope misses; logged at debug volume only via verdict
		// counters.
	}
}

func (e *Engine) dispatch(ctx context.Context, plan *domain.TradePlan) {
	if e.dryRun {
		e.logger.Printf("dry-run: would sandwich target=%s venue=%s mint=%s buy=%d expected_profit=%d",
			plan.TargetSignature, plan.Venue, plan.Mint, plan.Buy.AmountIn, plan.ExpectedProfit)
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		// The run context gates admission only. Work already admitted runs
		// to settlement even during shutdown; cancelling it mid-sequence
		// would turn completable sandwiches into recovery sells.
		rec := e.controller.Execute(context.WithoutCancel(ctx), plan)
		if e.metrics != nil {
			if rec.RecoveryAttempted {
				e.metrics.RecordRecovery(rec.RecoverySucceeded)
			}
			if rec.Success && rec.RealizedProfit > 0 {
				e.metrics.RealizedProfitSum.Add(float64(rec.RealizedProfit))
			}
		}
	}()
}
