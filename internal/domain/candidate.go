package domain

// CandidateEvent is a pending transaction observed on the log stream.
// Immutable once created; owned by the deduplicator until handed to the
// analyzer.
type CandidateEvent struct {
	Signature  string   // transaction signature, globally unique
	Slot       int64    // slot the notification was observed at
	Logs       []string // raw program log lines
	ObservedAt int64    // Unix timestamp in milliseconds
}
