package domain

// ExecutionState is the lifecycle state of an execution.
type ExecutionState string

// Execution lifecycle states. Recovering is entered only from the
// awaiting-target / sell-submitted failure paths and terminates in a
// settled failure.
const (
	StatePending        ExecutionState = "PENDING"
	StateBuySubmitted   ExecutionState = "BUY_SUBMITTED"
	StateAwaitingTarget ExecutionState = "AWAITING_TARGET"
	StateSellSubmitted  ExecutionState = "SELL_SUBMITTED"
	StateRecovering     ExecutionState = "RECOVERING"
	StateSettled        ExecutionState = "SETTLED"
)

// Outcome reason codes. OutcomeSuccess is the only success reason; the
// rest are failure reasons per the error taxonomy.
const (
	OutcomeSuccess            = "SUCCESS"
	OutcomeCapacityExceeded   = "CAPACITY_EXCEEDED"
	OutcomeDuplicateTarget    = "DUPLICATE_TARGET"
	OutcomeTargetNotConfirmed = "TARGET_NOT_CONFIRMED"
	OutcomeBroadcastRejected  = "BROADCAST_REJECTED"
	OutcomeSellFailed         = "SELL_FAILED"
	OutcomeTimeout            = "TIMEOUT"
)

// ExecutionRecord tracks one sandwich execution from admission to
// settlement. Owned exclusively by the execution controller for its
// lifetime.
type ExecutionRecord struct {
	ExecutionID     string
	TargetSignature string
	Venue           string
	Mint            string // asset under trade
	State           ExecutionState

	BuySignature  string // set once the buy leg is accepted
	SellSignature string // set once the sell leg is accepted

	Success        bool
	Outcome        string // OutcomeSuccess or a failure reason
	ExpectedProfit int64  // lamports, from the plan
	RealizedProfit int64  // lamports, estimated at settlement

	RecoveryAttempted bool
	RecoverySucceeded bool

	StartedAt int64 // Unix ms
	SettledAt int64 // Unix ms, zero while active
}
