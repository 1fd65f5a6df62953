package executor

import "sync"

// ActiveSet tracks assets currently under execution and enforces the
// concurrency cap. Admission is a single indivisible operation: the
// duplicate check, the count check, and the insert happen under one lock,
// so two candidates for the same asset can never both be admitted.
type ActiveSet struct {
	mu    sync.Mutex
	cap   int
	mints map[string]struct{}
}

// NewActiveSet creates an active set with the given concurrency cap.
func NewActiveSet(capacity int) *ActiveSet {
	return &ActiveSet{
		cap:   capacity,
		mints: make(map[string]struct{}, capacity),
	}
}

// Admit reserves a slot for the mint. Returns ErrDuplicateTarget when the
// mint is already active and ErrCapacityExceeded when the set is full. The
// duplicate check comes first: a second candidate for an active asset is a
// duplicate even when the set is at capacity. Callers must Release the mint
// on every terminal path.
func (s *ActiveSet) Admit(mint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, active := s.mints[mint]; active {
		return ErrDuplicateTarget
	}
	if len(s.mints) >= s.cap {
		return ErrCapacityExceeded
	}
	s.mints[mint] = struct{}{}
	return nil
}

// Release frees the mint's slot. Safe to call for a mint that is not
// active.
func (s *ActiveSet) Release(mint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mints, mint)
}

// HasMint reports whether the mint is currently under execution.
func (s *ActiveSet) HasMint(mint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, active := s.mints[mint]
	return active
}

// Len returns the number of active executions.
func (s *ActiveSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.mints)
}
