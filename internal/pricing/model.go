package pricing

import (
	"context"
	"errors"
	"fmt"

	"solana-sandwich-engine/internal/domain"
)

// Pricing errors.
var (
	// ErrUnprofitable means the venue model evaluated the opportunity and
	// found no buy size that clears the profit threshold.
	ErrUnprofitable = errors.New("opportunity is unprofitable")
	// ErrUnknownVenue means no model is registered for the venue.
	ErrUnknownVenue = errors.New("unknown venue")
	// ErrStaleSnapshot means the pool state could not be read in a usable
	// form (missing account, short data, empty reserves).
	ErrStaleSnapshot = errors.New("unusable pool snapshot")
)

// Costs carries the fixed costs and thresholds a plan must absorb.
type Costs struct {
	// BaseFeeLamports is the flat signature fee per transaction.
	BaseFeeLamports uint64
	// PriorityFeeLamports is the standard-tier priority fee per transaction.
	// Tier escalation during recovery is paid out of realized profit, not
	// priced into the plan.
	PriorityFeeLamports uint64
	// MinProfitLamports is the minimum net expected profit for a plan to be
	// worth executing.
	MinProfitLamports uint64
	// MaxPositionLamports caps the buy leg size.
	MaxPositionLamports uint64
}

// TxCost returns the fixed cost of one transaction.
func (c Costs) TxCost() uint64 {
	return c.BaseFeeLamports + c.PriorityFeeLamports
}

// Model prices sandwich opportunities for one venue.
//
// Snapshot reads live pool state and may perform I/O. Decide is a pure
// function of its inputs: given the same snapshot, descriptor, and costs it
// always produces the same plan, so pricing stays testable without a node.
type Model interface {
	// Venue returns the venue identifier the model prices.
	Venue() string

	// Snapshot fetches the current state of the pool the descriptor trades.
	Snapshot(ctx context.Context, desc domain.SwapDescriptor) (*domain.PoolSnapshot, error)

	// Decide sizes and prices a sandwich around the target swap. Returns
	// ErrUnprofitable when no viable plan exists.
	Decide(snap *domain.PoolSnapshot, desc domain.SwapDescriptor, costs Costs) (*domain.TradePlan, error)
}

// Registry routes descriptors to venue models.
type Registry struct {
	models map[string]Model
}

// NewRegistry creates a registry over the given models.
func NewRegistry(models ...Model) *Registry {
	r := &Registry{models: make(map[string]Model, len(models))}
	for _, m := range models {
		r.models[m.Venue()] = m
	}
	return r
}

// Lookup returns the model for a venue.
func (r *Registry) Lookup(venue string) (Model, error) {
	m, ok := r.models[venue]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVenue, venue)
	}
	return m, nil
}

// Venues returns the registered venue identifiers.
func (r *Registry) Venues() []string {
	venues := make([]string, 0, len(r.models))
	for v := range r.models {
		venues = append(venues, v)
	}
	return venues
}
