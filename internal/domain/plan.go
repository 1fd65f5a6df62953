package domain

import "fmt"

// TradeLeg is one side of a sandwich.
type TradeLeg struct {
	InputMint   string
	OutputMint  string
	AmountIn    uint64 // smallest units of InputMint
	ExpectedOut uint64 // smallest units of OutputMint at snapshot prices
	// Limit is MaxCost for the buy leg (lamports the engine is willing to
	// spend, AmountIn adjusted for slippage) and MinProceeds for the sell
	// leg (lamports it must receive back).
	Limit uint64
}

// TradePlan is a paired buy/sell plan derived from one PoolSnapshot and one
// SwapDescriptor. Consumed by exactly one execution.
type TradePlan struct {
	TargetSignature string // candidate the plan sandwiches
	Venue           string
	Pool            string
	Mint            string // asset under trade (buy output, sell input)

	Buy  TradeLeg // quote -> mint, submitted before the target
	Sell TradeLeg // mint -> quote, submitted after the target confirms

	ExpectedProfit int64 // net, lamports, after estimated costs
	SnapshotSlot   int64 // slot of the pool snapshot the plan was priced at
}

// Validate checks plan invariants: both legs trade the plan's mint, the
// sell leg sells exactly what the buy leg is expected to acquire, and the
// plan carries positive expected profit.
func (p *TradePlan) Validate() error {
	if p.TargetSignature == "" || p.Mint == "" {
		return fmt.Errorf("trade plan missing target or mint")
	}
	if p.Buy.OutputMint != p.Mint || p.Sell.InputMint != p.Mint {
		return fmt.Errorf("trade plan legs do not trade %s", p.Mint)
	}
	if p.Sell.AmountIn == 0 || p.Sell.AmountIn != p.Buy.ExpectedOut {
		return fmt.Errorf("sell leg input %d does not match buy leg output %d",
			p.Sell.AmountIn, p.Buy.ExpectedOut)
	}
	if p.ExpectedProfit <= 0 {
		return fmt.Errorf("trade plan has non-positive expected profit %d", p.ExpectedProfit)
	}
	return nil
}
