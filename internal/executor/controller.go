package executor

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"solana-sandwich-engine/internal/domain"
	"solana-sandwich-engine/internal/solana"
)

// Broadcaster submits trade legs to the network. Errors indicate
// network-level rejection only, never eventual on-chain failure.
type Broadcaster interface {
	Submit(ctx context.Context, leg domain.TradeLeg, tier domain.PriorityTier) (string, error)
}

// Ledger answers confirmation queries for submitted and observed
// transactions.
type Ledger interface {
	GetConfirmationStatus(ctx context.Context, signature string) (*solana.SignatureStatus, error)
}

// RecordStore persists settled execution records.
type RecordStore interface {
	SaveExecution(ctx context.Context, rec *domain.ExecutionRecord) error
}

// Metrics receives execution lifecycle observations. All methods must be
// safe for concurrent use.
type Metrics interface {
	ExecutionSettled(outcome string, seconds float64)
	SetActiveExecutions(n int)
}

// Config bounds the execution sequence.
type Config struct {
	// Deadline covers the buy and sell phases. Time spent waiting for the
	// target's confirmation does not count against it; that wait is bounded
	// by its own retry budget.
	Deadline time.Duration
	// TargetRetryInterval / TargetRetryCount bound the target-confirmation
	// poll.
	TargetRetryInterval time.Duration
	TargetRetryCount    int
	// SellRetryInterval / SellRetryCount bound the sell-confirmation poll.
	SellRetryInterval time.Duration
	SellRetryCount    int
	// RecoveryTimeout bounds the single recovery broadcast. Recovery runs
	// detached from the execution deadline so an expired deadline cannot
	// prevent liquidation.
	RecoveryTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.Deadline <= 0 {
		c.Deadline = 10 * time.Second
	}
	if c.TargetRetryInterval <= 0 {
		c.TargetRetryInterval = 500 * time.Millisecond
	}
	if c.TargetRetryCount <= 0 {
		c.TargetRetryCount = 30
	}
	if c.SellRetryInterval <= 0 {
		c.SellRetryInterval = c.TargetRetryInterval
	}
	if c.SellRetryCount <= 0 {
		c.SellRetryCount = c.TargetRetryCount
	}
	if c.RecoveryTimeout <= 0 {
		c.RecoveryTimeout = 5 * time.Second
	}
}

// Options configures a Controller.
type Options struct {
	Active      *ActiveSet
	Broadcaster Broadcaster
	Ledger      Ledger
	Store       RecordStore
	Metrics     Metrics
	Config      Config
	Logger      *log.Logger
}

// Controller runs admitted trade plans through the three-step causal
// sequence: submit buy, wait for target confirmation, submit sell. Every
// call produces exactly one settled record; failures after the buy leg
// trigger a single recovery sell before settlement.
type Controller struct {
	active      *ActiveSet
	broadcaster Broadcaster
	ledger      Ledger
	store       RecordStore
	metrics     Metrics
	cfg         Config
	logger      *log.Logger
}

// NewController creates an execution controller.
func NewController(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[executor] ", log.LstdFlags)
	}
	cfg := opts.Config
	cfg.applyDefaults()
	return &Controller{
		active:      opts.Active,
		broadcaster: opts.Broadcaster,
		ledger:      opts.Ledger,
		store:       opts.Store,
		metrics:     opts.Metrics,
		cfg:         cfg,
		logger:      logger,
	}
}

// Execute runs one sandwich to settlement and returns the terminal record.
// It never returns an error and never panics from the recovery path; all
// failures settle as structured outcomes. The asset's active-set slot is
// released on every terminal path.
func (c *Controller) Execute(ctx context.Context, plan *domain.TradePlan) *domain.ExecutionRecord {
	rec := &domain.ExecutionRecord{
		ExecutionID:     uuid.NewString(),
		TargetSignature: plan.TargetSignature,
		Venue:           plan.Venue,
		Mint:            plan.Mint,
		State:           domain.StatePending,
		ExpectedProfit:  plan.ExpectedProfit,
		StartedAt:       time.Now().UnixMilli(),
	}

	if err := c.active.Admit(plan.Mint); err != nil {
		if errors.Is(err, ErrDuplicateTarget) {
			return c.settle(rec, domain.OutcomeDuplicateTarget, false)
		}
		return c.settle(rec, domain.OutcomeCapacityExceeded, false)
	}
	defer func() {
		c.active.Release(plan.Mint)
		if c.metrics != nil {
			c.metrics.SetActiveExecutions(c.active.Len())
		}
	}()
	if c.metrics != nil {
		c.metrics.SetActiveExecutions(c.active.Len())
	}

	// Buy phase, charged against the deadline.
	budget := c.cfg.Deadline
	buyStart := time.Now()
	buyCtx, cancelBuy := context.WithTimeout(ctx, budget)
	buySig, err := c.broadcaster.Submit(buyCtx, plan.Buy, domain.TierElevated)
	cancelBuy()
	if err != nil {
		// Nothing executed yet, so no recovery.
		if errors.Is(err, context.DeadlineExceeded) {
			return c.settle(rec, domain.OutcomeTimeout, false)
		}
		c.logger.Printf("buy rejected for %s: %v", plan.TargetSignature, err)
		return c.settle(rec, domain.OutcomeBroadcastRejected, false)
	}
	budget -= time.Since(buyStart)

	rec.State = domain.StateBuySubmitted
	rec.BuySignature = buySig
	rec.State = domain.StateAwaitingTarget

	// Target wait, bounded by its own retry budget.
	confirmed, err := c.awaitConfirmation(ctx, plan.TargetSignature, c.cfg.TargetRetryCount, c.cfg.TargetRetryInterval)
	if err != nil {
		c.recover(rec, plan)
		return c.settle(rec, domain.OutcomeTimeout, false)
	}
	if !confirmed {
		c.recover(rec, plan)
		return c.settle(rec, domain.OutcomeTargetNotConfirmed, false)
	}

	// Sell phase, charged against what remains of the deadline.
	if budget <= 0 {
		c.recover(rec, plan)
		return c.settle(rec, domain.OutcomeTimeout, false)
	}
	sellCtx, cancelSell := context.WithTimeout(ctx, budget)
	defer cancelSell()

	sellSig, err := c.broadcaster.Submit(sellCtx, plan.Sell, domain.TierHigh)
	if err != nil {
		c.recover(rec, plan)
		if errors.Is(err, context.DeadlineExceeded) {
			return c.settle(rec, domain.OutcomeTimeout, false)
		}
		c.logger.Printf("sell rejected for %s: %v", plan.TargetSignature, err)
		return c.settle(rec, domain.OutcomeSellFailed, false)
	}
	rec.State = domain.StateSellSubmitted
	rec.SellSignature = sellSig

	confirmed, err = c.awaitConfirmation(sellCtx, sellSig, c.cfg.SellRetryCount, c.cfg.SellRetryInterval)
	if err != nil {
		c.recover(rec, plan)
		return c.settle(rec, domain.OutcomeTimeout, false)
	}
	if !confirmed {
		c.recover(rec, plan)
		return c.settle(rec, domain.OutcomeSellFailed, false)
	}

	rec.RealizedProfit = int64(plan.Sell.ExpectedOut) - int64(plan.Buy.AmountIn)
	return c.settle(rec, domain.OutcomeSuccess, true)
}

// awaitConfirmation polls the ledger until the signature confirms, fails
// on-chain, or the retry budget runs out. Returns an error only when the
// context is cancelled.
func (c *Controller) awaitConfirmation(ctx context.Context, signature string, retries int, interval time.Duration) (bool, error) {
	for i := 0; i < retries; i++ {
		status, err := c.ledger.GetConfirmationStatus(ctx, signature)
		if err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			// Transient RPC failure; the retry budget absorbs it.
			c.logger.Printf("status poll failed for %s: %v", signature, err)
		} else if status != nil {
			if status.Confirmed() {
				return true, nil
			}
			if status.Err != nil {
				// Failed on-chain; it will never confirm.
				return false, nil
			}
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(interval):
		}
	}
	return false, nil
}

// recover submits the sell leg once at the maximum priority tier to
// liquidate the position acquired by the buy leg. It is attempted exactly
// once per execution, runs on its own timeout so an expired deadline
// cannot block it, and never propagates an error; the attempt's outcome is
// recorded for observability only.
func (c *Controller) recover(rec *domain.ExecutionRecord, plan *domain.TradePlan) {
	if rec.RecoveryAttempted {
		return
	}
	rec.State = domain.StateRecovering
	rec.RecoveryAttempted = true

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.RecoveryTimeout)
	defer cancel()

	sig, err := c.broadcaster.Submit(ctx, plan.Sell, domain.TierMax)
	if err != nil {
		c.logger.Printf("recovery sell failed for %s: %v", plan.TargetSignature, err)
		return
	}
	rec.RecoverySucceeded = true
	if rec.SellSignature == "" {
		rec.SellSignature = sig
	}
	c.logger.Printf("recovery sell %s submitted for %s", sig, plan.TargetSignature)
}

// settle finalizes the record, persists it, and reports metrics. Called
// exactly once per execution.
func (c *Controller) settle(rec *domain.ExecutionRecord, outcome string, success bool) *domain.ExecutionRecord {
	rec.State = domain.StateSettled
	rec.Outcome = outcome
	rec.Success = success
	rec.SettledAt = time.Now().UnixMilli()

	if c.store != nil {
		saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := c.store.SaveExecution(saveCtx, rec); err != nil {
			c.logger.Printf("failed to persist execution %s: %v", rec.ExecutionID, err)
		}
		cancel()
	}
	if c.metrics != nil {
		c.metrics.ExecutionSettled(outcome, float64(rec.SettledAt-rec.StartedAt)/1000)
	}

	c.logger.Printf("execution %s settled: target=%s mint=%s outcome=%s recovery=%v/%v",
		rec.ExecutionID, rec.TargetSignature, rec.Mint, outcome,
		rec.RecoveryAttempted, rec.RecoverySucceeded)
	return rec
}
