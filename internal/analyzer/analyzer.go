package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"solana-sandwich-engine/internal/domain"
	"solana-sandwich-engine/internal/pricing"
)

// ActiveReader exposes a read-only view of assets currently under
// execution. The check here is advisory; the execution controller performs
// the authoritative atomic admission.
type ActiveReader interface {
	HasMint(mint string) bool
}

// Options configures an Analyzer.
type Options struct {
	Classifier *Classifier
	Registry   *pricing.Registry
	Active     ActiveReader
	Costs      pricing.Costs
	// AllowedMints restricts execution to these traded assets when
	// non-empty.
	AllowedMints []string
	Logger       *log.Logger
}

// Analyzer evaluates candidate events and produces execution verdicts.
// Every candidate receives exactly one verdict; evaluation short-circuits
// at the first disqualifying step.
type Analyzer struct {
	classifier *Classifier
	registry   *pricing.Registry
	active     ActiveReader
	costs      pricing.Costs
	allowed    map[string]bool
	logger     *log.Logger
}

// New creates an Analyzer.
func New(opts Options) *Analyzer {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[analyzer] ", log.LstdFlags)
	}
	classifier := opts.Classifier
	if classifier == nil {
		classifier = NewClassifier()
	}
	var allowed map[string]bool
	if len(opts.AllowedMints) > 0 {
		allowed = make(map[string]bool, len(opts.AllowedMints))
		for _, mint := range opts.AllowedMints {
			allowed[mint] = true
		}
	}
	return &Analyzer{
		classifier: classifier,
		registry:   opts.Registry,
		active:     opts.Active,
		costs:      opts.Costs,
		allowed:    allowed,
		logger:     logger,
	}
}

// Analyze classifies, scopes, and prices one candidate event.
//
// The pipeline short-circuits in order: log classification, descriptor
// completeness, venue support, allow-list, asset exclusivity, pool
// snapshot, pricing. Only the snapshot step performs I/O.
func (a *Analyzer) Analyze(ctx context.Context, ev domain.CandidateEvent) domain.Verdict {
	desc, ok := a.classifier.Classify(ev)
	if !ok {
		return domain.Verdict{Kind: domain.VerdictNotASwap}
	}

	if desc.Pool == "" || desc.InputMint == "" || desc.OutputMint == "" {
		return domain.Verdict{Kind: domain.VerdictOutOfScope, Reason: "incomplete swap descriptor"}
	}
	if desc.AmountIn == 0 {
		return domain.Verdict{Kind: domain.VerdictOutOfScope, Reason: "target amount unknown"}
	}

	model, err := a.registry.Lookup(desc.Venue)
	if err != nil {
		return domain.Verdict{Kind: domain.VerdictOutOfScope, Reason: fmt.Sprintf("venue %s not supported", desc.Venue)}
	}

	mint := tradedMint(desc)
	if a.allowed != nil && !a.allowed[mint] {
		return domain.Verdict{Kind: domain.VerdictOutOfScope, Reason: fmt.Sprintf("asset %s not in allow-list", mint)}
	}
	if a.active != nil && a.active.HasMint(mint) {
		return domain.Verdict{Kind: domain.VerdictOutOfScope, Reason: fmt.Sprintf("asset %s already under execution", mint)}
	}

	snap, err := model.Snapshot(ctx, *desc)
	if err != nil {
		a.logger.Printf("snapshot failed for %s pool %s: %v", desc.Venue, desc.Pool, err)
		return domain.Verdict{Kind: domain.VerdictUnprofitable, Reason: fmt.Sprintf("pool state unavailable: %v", err)}
	}

	plan, err := model.Decide(snap, *desc, a.costs)
	if err != nil {
		if errors.Is(err, pricing.ErrUnprofitable) || errors.Is(err, pricing.ErrStaleSnapshot) {
			return domain.Verdict{Kind: domain.VerdictUnprofitable, Reason: err.Error()}
		}
		a.logger.Printf("pricing failed for %s: %v", ev.Signature, err)
		return domain.Verdict{Kind: domain.VerdictUnprofitable, Reason: fmt.Sprintf("pricing error: %v", err)}
	}

	return domain.Verdict{Kind: domain.VerdictExecute, Plan: plan}
}

// tradedMint returns the non-WSOL side of the swap.
func tradedMint(desc *domain.SwapDescriptor) string {
	if desc.InputMint == WSOL {
		return desc.OutputMint
	}
	return desc.InputMint
}
