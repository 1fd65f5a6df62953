// Package main runs the sandwich execution engine: a deduplicated log
// stream feeding the opportunity analyzer, with execute verdicts handed to
// the bounded execution controller.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"solana-sandwich-engine/internal/analyzer"
	"solana-sandwich-engine/internal/config"
	"solana-sandwich-engine/internal/dedup"
	"solana-sandwich-engine/internal/domain"
	"solana-sandwich-engine/internal/engine"
	"solana-sandwich-engine/internal/executor"
	"solana-sandwich-engine/internal/observability"
	"solana-sandwich-engine/internal/pricing"
	"solana-sandwich-engine/internal/solana"
	chstore "solana-sandwich-engine/internal/storage/clickhouse"
	"solana-sandwich-engine/internal/storage/memory"
	"solana-sandwich-engine/internal/storage/migrations"
	pgstore "solana-sandwich-engine/internal/storage/postgres"
)

// venuePrograms maps venue tags to the program IDs the log stream watches.
var venuePrograms = map[string]string{
	domain.VenueRaydium: analyzer.RaydiumAMMV4,
	domain.VenuePumpFun: analyzer.PumpFun,
}

func main() {
	configPath := flag.String("config", "", "Path to TOML configuration file")
	dryRun := flag.Bool("dry-run", false, "Log execute verdicts instead of running them")
	flag.Parse()

	logger := log.New(os.Stdout, "[main] ", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if *dryRun {
		cfg.DryRun = true
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("%v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals: first stops admitting work and drains, a
	// second forces immediate exit.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()
		sig = <-sigCh
		logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
		os.Exit(1)
	}()

	rpc := solana.NewHTTPClient(cfg.Solana.RPCURL)

	// Connectivity check before wiring anything else; a dead endpoint is a
	// startup failure, not something to retry into.
	checkCtx, checkCancel := context.WithTimeout(ctx, 10*time.Second)
	slot, err := rpc.GetSlot(checkCtx)
	checkCancel()
	if err != nil {
		logger.Fatalf("RPC connectivity check failed for %s: %v", cfg.Solana.RPCURL, err)
	}
	logger.Printf("Connected to %s, current slot %d", cfg.Solana.RPCURL, slot)

	metrics := observability.NewMetrics("")

	wsCfg := solana.DefaultWSConfig()
	wsCfg.OnReconnect = metrics.StreamReconnects.Inc
	ws, err := solana.NewWSClient(ctx, cfg.Solana.WSURL, &wsCfg)
	if err != nil {
		logger.Fatalf("Failed to connect websocket %s: %v", cfg.Solana.WSURL, err)
	}
	defer ws.Close()

	store, cleanup, err := createStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to create store: %v", err)
	}
	defer cleanup()

	programs := make([]string, 0, len(cfg.Trading.Venues))
	models := make([]pricing.Model, 0, len(cfg.Trading.Venues))
	for _, venue := range cfg.Trading.Venues {
		programs = append(programs, venuePrograms[venue])
		switch venue {
		case domain.VenueRaydium:
			models = append(models, pricing.NewRaydiumModel(rpc, cfg.Trading.SlippageBps))
		case domain.VenuePumpFun:
			models = append(models, pricing.NewPumpFunModel(rpc, cfg.Trading.SlippageBps))
		}
	}
	logger.Printf("Monitoring venues %v", cfg.Trading.Venues)

	costs := pricing.Costs{
		BaseFeeLamports:     cfg.Trading.BaseFeeLamports,
		PriorityFeeLamports: cfg.Trading.PriorityFeeLamports,
		MinProfitLamports:   cfg.Trading.MinProfitLamports,
		MaxPositionLamports: cfg.Trading.MaxPositionLamports,
	}

	active := executor.NewActiveSet(cfg.Executor.MaxConcurrent)

	controller := executor.NewController(executor.Options{
		Active:      active,
		Broadcaster: solana.NewRPCBroadcaster(rpc, solana.StubEncoder{}, cfg.Trading.PriorityFeeLamports),
		Ledger:      solana.NewLedgerReader(rpc),
		Store:       store,
		Metrics:     metrics,
		Config: executor.Config{
			Deadline:            cfg.Executor.Deadline.Duration,
			TargetRetryInterval: cfg.Executor.TargetRetryInterval.Duration,
			TargetRetryCount:    cfg.Executor.TargetRetryCount,
			SellRetryInterval:   cfg.Executor.SellRetryInterval.Duration,
			SellRetryCount:      cfg.Executor.SellRetryCount,
			RecoveryTimeout:     cfg.Executor.RecoveryTimeout.Duration,
		},
	})

	eng := engine.New(engine.Options{
		Source: engine.NewWSSource(ws, programs),
		Dedup:  dedup.New(10_000),
		Analyzer: analyzer.New(analyzer.Options{
			Registry:     pricing.NewRegistry(models...),
			Active:       active,
			Costs:        costs,
			AllowedMints: cfg.Trading.AllowedMints,
		}),
		Controller: controller,
		Metrics:    metrics,
		DryRun:     cfg.DryRun,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return eng.Run(gctx)
	})

	httpServer := &http.Server{Addr: cfg.Server.MetricsAddr, Handler: newMux()}
	g.Go(func() error {
		logger.Printf("Serving metrics on %s", cfg.Server.MetricsAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("Engine error: %v", err)
	}
	logger.Println("Shutdown complete")
}

// createStore selects the execution record store: postgres when a DSN is
// configured, in-memory otherwise, with the clickhouse outcome sink layered
// on when its DSN is set.
func createStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (executor.RecordStore, func(), error) {
	var (
		store   executor.RecordStore
		cleanup = func() {}
	)

	if cfg.Postgres.DSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
			}
		}
		store = pgstore.NewExecutionStore(pool)
		cleanup = pool.Close
		logger.Println("Using postgres execution store")
	} else {
		store = memory.NewExecutionStore()
		logger.Println("Using in-memory execution store")
	}

	if cfg.Clickhouse.DSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Clickhouse.DSN)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
		}
		pgCleanup := cleanup
		cleanup = func() {
			conn.Close()
			pgCleanup()
		}
		store = &teeStore{
			primary:  store,
			outcomes: chstore.NewOutcomeStore(conn),
			logger:   logger,
		}
		logger.Println("Clickhouse outcome sink enabled")
	}

	return store, cleanup, nil
}

// teeStore persists each settled record to the primary store and mirrors it
// into the analytics sink. Sink failures are logged, not propagated; the
// durable store is authoritative.
type teeStore struct {
	primary  executor.RecordStore
	outcomes outcomeSink
	logger   *log.Logger
}

type outcomeSink interface {
	InsertOutcome(ctx context.Context, rec *domain.ExecutionRecord) error
}

func (t *teeStore) SaveExecution(ctx context.Context, rec *domain.ExecutionRecord) error {
	if err := t.outcomes.InsertOutcome(ctx, rec); err != nil {
		t.logger.Printf("clickhouse outcome insert failed for %s: %v", rec.ExecutionID, err)
	}
	return t.primary.SaveExecution(ctx, rec)
}

func newMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())
	return mux
}
