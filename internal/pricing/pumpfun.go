package pricing

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"solana-sandwich-engine/internal/domain"
	"solana-sandwich-engine/internal/solana"
)

// NativeMint is the wrapped SOL mint; pump.fun curves always quote in SOL.
const NativeMint = "So11111111111111111111111111111111111111112"

// pump.fun bonding curve account layout: 8-byte discriminator followed by
// five u64 fields and a completion flag.
const (
	pumpCurveSize          = 49
	pumpVirtualTokenOffset = 8
	pumpVirtualSolOffset   = 16
	pumpCompleteOffset     = 48
)

// PumpFunModel prices sandwiches on pump.fun bonding curves. The curve is
// constant-product over virtual reserves, so the shared math applies with
// the curve account read in place of vault balances.
type PumpFunModel struct {
	constantProduct
	rpc solana.RPCClient
}

// NewPumpFunModel creates a pump.fun pricing model. The bonding curve
// charges a 1% swap fee.
func NewPumpFunModel(rpc solana.RPCClient, slippageBps uint64) *PumpFunModel {
	return &PumpFunModel{
		constantProduct: constantProduct{feeNum: 100, feeDen: 10000, slippageBps: slippageBps},
		rpc:             rpc,
	}
}

// Venue implements Model.
func (m *PumpFunModel) Venue() string { return domain.VenuePumpFun }

// Snapshot implements Model. desc.Pool is the bonding curve account; the
// token mint comes from the descriptor because the curve account does not
// store it.
func (m *PumpFunModel) Snapshot(ctx context.Context, desc domain.SwapDescriptor) (*domain.PoolSnapshot, error) {
	info, err := m.rpc.GetAccountInfo(ctx, desc.Pool)
	if err != nil {
		return nil, fmt.Errorf("fetch bonding curve %s: %w", desc.Pool, err)
	}
	if info == nil || len(info.Data) < pumpCurveSize {
		return nil, fmt.Errorf("%w: bonding curve %s", ErrStaleSnapshot, desc.Pool)
	}
	if info.Data[pumpCompleteOffset] != 0 {
		// Completed curves have migrated to an AMM; this account no longer
		// trades.
		return nil, fmt.Errorf("%w: bonding curve %s is complete", ErrStaleSnapshot, desc.Pool)
	}

	tokenMint := desc.OutputMint
	if tokenMint == NativeMint {
		tokenMint = desc.InputMint
	}

	slot, err := m.rpc.GetSlot(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch slot: %w", err)
	}

	return &domain.PoolSnapshot{
		Venue:        domain.VenuePumpFun,
		Pool:         desc.Pool,
		BaseMint:     tokenMint,
		QuoteMint:    NativeMint,
		BaseReserve:  binary.LittleEndian.Uint64(info.Data[pumpVirtualTokenOffset:]),
		QuoteReserve: binary.LittleEndian.Uint64(info.Data[pumpVirtualSolOffset:]),
		FeeRate:      m.FeeRate(),
		Slot:         slot,
		FetchedAt:    time.Now().UnixMilli(),
	}, nil
}

// Decide implements Model.
func (m *PumpFunModel) Decide(snap *domain.PoolSnapshot, desc domain.SwapDescriptor, costs Costs) (*domain.TradePlan, error) {
	return m.decide(snap, desc, costs)
}

var _ Model = (*PumpFunModel)(nil)
