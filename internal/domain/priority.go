package domain

// PriorityTier is a relative fee level used to influence inclusion order.
// The buy leg races the target so it uses TierElevated; the sell leg must
// not queue behind new entrants so it uses TierHigh; recovery sells use
// TierMax.
type PriorityTier int

const (
	TierStandard PriorityTier = iota
	TierElevated
	TierHigh
	TierMax
)

// String returns the tier name for logs.
func (t PriorityTier) String() string {
	switch t {
	case TierStandard:
		return "standard"
	case TierElevated:
		return "elevated"
	case TierHigh:
		return "high"
	case TierMax:
		return "max"
	default:
		return "unknown"
	}
}

// Multiplier returns the compute-unit-price multiplier applied on top of
// the configured base priority fee for this tier.
func (t PriorityTier) Multiplier() uint64 {
	switch t {
	case TierElevated:
		return 4
	case TierHigh:
		return 8
	case TierMax:
		return 16
	default:
		return 1
	}
}
