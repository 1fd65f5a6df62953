package executor

import "errors"

// Admission errors. Both are expected under load and map to non-fatal
// outcomes, never to process failure.
var (
	// ErrCapacityExceeded means the active-execution count is at the cap.
	ErrCapacityExceeded = errors.New("execution capacity exceeded")
	// ErrDuplicateTarget means another active execution already trades the
	// same asset.
	ErrDuplicateTarget = errors.New("asset already under execution")
)
