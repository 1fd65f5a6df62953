package domain

// Venue tags for supported DEX programs.
const (
	VenueRaydium = "RAYDIUM_AMM_V4"
	VenuePumpFun = "PUMP_FUN"
)

// SwapDescriptor describes the target swap extracted from a candidate
// event. Derived once per candidate; never mutated.
type SwapDescriptor struct {
	Venue       string // venue tag (VenueRaydium, VenuePumpFun)
	Pool        string // pool / bonding curve account
	InputMint   string // asset the target is selling
	OutputMint  string // asset the target is buying
	AmountIn    uint64 // nominal input amount in smallest units
	TxSignature string // source candidate identifier
}

// PoolSnapshot is a point-in-time read of a venue's tradable reserves.
// It must not be cached across analyses of different candidates.
type PoolSnapshot struct {
	Venue        string
	Pool         string
	BaseMint     string  // traded token
	QuoteMint    string  // pricing asset (WSOL)
	BaseReserve  uint64  // smallest units of base
	QuoteReserve uint64  // lamports of quote
	FeeRate      float64 // fractional, e.g. 0.0025
	Slot         int64
	FetchedAt    int64 // Unix timestamp in milliseconds
}
