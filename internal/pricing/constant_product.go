package pricing

import (
	"fmt"
	"math/big"

	"solana-sandwich-engine/internal/domain"
)

// constantProduct prices sandwiches on x*y=k pools. Venue models embed it
// and supply the venue fee and slippage tolerance.
type constantProduct struct {
	// feeNum/feeDen is the swap fee taken from the input amount,
	// e.g. 25/10000 for 0.25%.
	feeNum uint64
	feeDen uint64
	// slippageBps pads the buy limit and shaves the sell limit, in basis
	// points.
	slippageBps uint64
}

// FeeRate returns the fee as a fraction.
func (c constantProduct) FeeRate() float64 {
	return float64(c.feeNum) / float64(c.feeDen)
}

// swapOutput computes the output of a constant-product swap with the fee
// taken from the input. Intermediate products exceed 64 bits, so the math
// runs through big.Int.
func (c constantProduct) swapOutput(amountIn, reserveIn, reserveOut uint64) uint64 {
	if amountIn == 0 || reserveIn == 0 || reserveOut == 0 {
		return 0
	}
	inWithFee := new(big.Int).Mul(
		new(big.Int).SetUint64(amountIn),
		new(big.Int).SetUint64(c.feeDen-c.feeNum),
	)
	numerator := new(big.Int).Mul(inWithFee, new(big.Int).SetUint64(reserveOut))
	denominator := new(big.Int).Mul(
		new(big.Int).SetUint64(reserveIn),
		new(big.Int).SetUint64(c.feeDen),
	)
	denominator.Add(denominator, inWithFee)
	out := numerator.Div(numerator, denominator)
	return out.Uint64()
}

// sandwichResult is the simulated outcome of one buy size.
type sandwichResult struct {
	buyIn   uint64 // quote spent on the buy leg
	buyOut  uint64 // base acquired by the buy leg
	sellOut uint64 // quote returned by the sell leg
	profit  int64  // sellOut - buyIn - fixed costs
}

// simulate walks the pool through buy leg, target swap, sell leg and
// returns the net result. Reserves move by the full input amount; the fee
// stays in the pool.
func (c constantProduct) simulate(snap *domain.PoolSnapshot, targetIn, buyIn uint64, costs Costs) sandwichResult {
	baseReserve := snap.BaseReserve
	quoteReserve := snap.QuoteReserve

	buyOut := c.swapOutput(buyIn, quoteReserve, baseReserve)
	quoteReserve += buyIn
	baseReserve -= buyOut

	targetOut := c.swapOutput(targetIn, quoteReserve, baseReserve)
	quoteReserve += targetIn
	baseReserve -= targetOut

	sellOut := c.swapOutput(buyOut, baseReserve, quoteReserve)

	profit := int64(sellOut) - int64(buyIn) - 2*int64(costs.TxCost())
	return sandwichResult{buyIn: buyIn, buyOut: buyOut, sellOut: sellOut, profit: profit}
}

// optimalBuy finds the buy size that maximizes simulated profit. Profit is
// unimodal in the buy size on a constant-product curve, so a ternary search
// over integer sizes converges; the final short interval is scanned
// linearly. Fully deterministic for fixed inputs.
func (c constantProduct) optimalBuy(snap *domain.PoolSnapshot, targetIn uint64, costs Costs) sandwichResult {
	lo := uint64(1)
	hi := costs.MaxPositionLamports
	if hi > snap.QuoteReserve {
		hi = snap.QuoteReserve
	}
	if hi < lo {
		return sandwichResult{profit: -1}
	}

	for hi-lo > 2 {
		third := (hi - lo) / 3
		m1 := lo + third
		m2 := hi - third
		if c.simulate(snap, targetIn, m1, costs).profit < c.simulate(snap, targetIn, m2, costs).profit {
			lo = m1 + 1
		} else {
			hi = m2 - 1
		}
	}

	best := c.simulate(snap, targetIn, lo, costs)
	for b := lo + 1; b <= hi; b++ {
		if r := c.simulate(snap, targetIn, b, costs); r.profit > best.profit {
			best = r
		}
	}
	return best
}

// decide sizes a sandwich around the target swap and builds the plan.
// Shared by all constant-product venue models.
func (c constantProduct) decide(snap *domain.PoolSnapshot, desc domain.SwapDescriptor, costs Costs) (*domain.TradePlan, error) {
	if snap == nil || snap.BaseReserve == 0 || snap.QuoteReserve == 0 {
		return nil, ErrStaleSnapshot
	}
	if desc.InputMint != snap.QuoteMint || desc.OutputMint != snap.BaseMint {
		// A target selling the pool asset pushes the price down; buying
		// ahead of it loses money.
		return nil, fmt.Errorf("%w: target sells %s", ErrUnprofitable, snap.BaseMint)
	}
	if desc.AmountIn == 0 {
		return nil, fmt.Errorf("%w: target swap has zero input", ErrUnprofitable)
	}

	best := c.optimalBuy(snap, desc.AmountIn, costs)
	// Profit must strictly exceed the threshold; meeting it exactly is not
	// worth the execution risk.
	if best.profit <= int64(costs.MinProfitLamports) || best.buyOut == 0 {
		return nil, fmt.Errorf("%w: best profit %d does not exceed threshold %d",
			ErrUnprofitable, best.profit, costs.MinProfitLamports)
	}

	slip := func(v uint64) uint64 { return v * c.slippageBps / 10000 }

	plan := &domain.TradePlan{
		TargetSignature: desc.TxSignature,
		Venue:           snap.Venue,
		Pool:            snap.Pool,
		Mint:            snap.BaseMint,
		Buy: domain.TradeLeg{
			InputMint:   snap.QuoteMint,
			OutputMint:  snap.BaseMint,
			AmountIn:    best.buyIn,
			ExpectedOut: best.buyOut,
			Limit:       best.buyIn + slip(best.buyIn),
		},
		Sell: domain.TradeLeg{
			InputMint:   snap.BaseMint,
			OutputMint:  snap.QuoteMint,
			AmountIn:    best.buyOut,
			ExpectedOut: best.sellOut,
			Limit:       best.sellOut - slip(best.sellOut),
		},
		ExpectedProfit: best.profit,
		SnapshotSlot:   snap.Slot,
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("built invalid plan: %w", err)
	}
	return plan, nil
}
