package domain

// VerdictKind classifies the analyzer's decision for one candidate.
type VerdictKind string

// Analyzer verdicts.
const (
	VerdictNotASwap     VerdictKind = "NOT_A_SWAP"
	VerdictOutOfScope   VerdictKind = "OUT_OF_SCOPE"
	VerdictUnprofitable VerdictKind = "UNPROFITABLE"
	VerdictExecute      VerdictKind = "EXECUTE"
)

// Verdict is the analyzer's decision for a candidate event. Plan is set
// only when Kind is VerdictExecute.
type Verdict struct {
	Kind   VerdictKind
	Reason string // short diagnostic, empty for EXECUTE
	Plan   *TradePlan
}
