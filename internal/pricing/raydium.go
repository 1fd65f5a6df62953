package pricing

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/mr-tron/base58"

	"solana-sandwich-engine/internal/domain"
	"solana-sandwich-engine/internal/solana"
)

// Raydium AMM v4 pool state offsets (LIQUIDITY_STATE_LAYOUT_V4).
const (
	raydiumStateSize        = 752
	raydiumBaseVaultOffset  = 336
	raydiumQuoteVaultOffset = 368
	raydiumBaseMintOffset   = 400
	raydiumQuoteMintOffset  = 432
)

// SPL token account amount field.
const tokenAccountAmountOffset = 64

// RaydiumModel prices sandwiches on Raydium AMM v4 pools. The pool state
// account holds the vault addresses; reserves are the vault token balances.
type RaydiumModel struct {
	constantProduct
	rpc solana.RPCClient
}

// NewRaydiumModel creates a Raydium pricing model. Raydium AMM v4 charges
// a 0.25% swap fee.
func NewRaydiumModel(rpc solana.RPCClient, slippageBps uint64) *RaydiumModel {
	return &RaydiumModel{
		constantProduct: constantProduct{feeNum: 25, feeDen: 10000, slippageBps: slippageBps},
		rpc:             rpc,
	}
}

// Venue implements Model.
func (m *RaydiumModel) Venue() string { return domain.VenueRaydium }

// Snapshot implements Model. It reads the pool state account for the vault
// and mint addresses, then both vault balances.
func (m *RaydiumModel) Snapshot(ctx context.Context, desc domain.SwapDescriptor) (*domain.PoolSnapshot, error) {
	info, err := m.rpc.GetAccountInfo(ctx, desc.Pool)
	if err != nil {
		return nil, fmt.Errorf("fetch pool state %s: %w", desc.Pool, err)
	}
	if info == nil || len(info.Data) < raydiumStateSize {
		return nil, fmt.Errorf("%w: pool %s", ErrStaleSnapshot, desc.Pool)
	}

	baseVault := base58.Encode(info.Data[raydiumBaseVaultOffset : raydiumBaseVaultOffset+32])
	quoteVault := base58.Encode(info.Data[raydiumQuoteVaultOffset : raydiumQuoteVaultOffset+32])
	baseMint := base58.Encode(info.Data[raydiumBaseMintOffset : raydiumBaseMintOffset+32])
	quoteMint := base58.Encode(info.Data[raydiumQuoteMintOffset : raydiumQuoteMintOffset+32])

	baseReserve, err := m.vaultBalance(ctx, baseVault)
	if err != nil {
		return nil, fmt.Errorf("base vault %s: %w", baseVault, err)
	}
	quoteReserve, err := m.vaultBalance(ctx, quoteVault)
	if err != nil {
		return nil, fmt.Errorf("quote vault %s: %w", quoteVault, err)
	}

	slot, err := m.rpc.GetSlot(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch slot: %w", err)
	}

	return &domain.PoolSnapshot{
		Venue:        domain.VenueRaydium,
		Pool:         desc.Pool,
		BaseMint:     baseMint,
		QuoteMint:    quoteMint,
		BaseReserve:  baseReserve,
		QuoteReserve: quoteReserve,
		FeeRate:      m.FeeRate(),
		Slot:         slot,
		FetchedAt:    time.Now().UnixMilli(),
	}, nil
}

// Decide implements Model.
func (m *RaydiumModel) Decide(snap *domain.PoolSnapshot, desc domain.SwapDescriptor, costs Costs) (*domain.TradePlan, error) {
	return m.decide(snap, desc, costs)
}

func (m *RaydiumModel) vaultBalance(ctx context.Context, vault string) (uint64, error) {
	info, err := m.rpc.GetAccountInfo(ctx, vault)
	if err != nil {
		return 0, err
	}
	if info == nil || len(info.Data) < tokenAccountAmountOffset+8 {
		return 0, fmt.Errorf("%w: vault account", ErrStaleSnapshot)
	}
	return binary.LittleEndian.Uint64(info.Data[tokenAccountAmountOffset:]), nil
}

var _ Model = (*RaydiumModel)(nil)
