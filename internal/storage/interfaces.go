package storage

import (
	"context"

	"solana-sandwich-engine/internal/domain"
)

// ExecutionStore persists settled execution records for audit and replay.
type ExecutionStore interface {
	// SaveExecution inserts a settled record. Returns ErrDuplicateKey if
	// the execution ID already exists.
	SaveExecution(ctx context.Context, rec *domain.ExecutionRecord) error

	// GetByID retrieves a record by execution ID. Returns ErrNotFound if
	// it does not exist.
	GetByID(ctx context.Context, executionID string) (*domain.ExecutionRecord, error)

	// GetByTarget retrieves all records for a target signature, ordered by
	// start time ascending.
	GetByTarget(ctx context.Context, targetSignature string) ([]*domain.ExecutionRecord, error)

	// GetRecent retrieves the most recently settled records, newest first.
	GetRecent(ctx context.Context, limit int) ([]*domain.ExecutionRecord, error)
}

// OutcomeStore records execution outcomes in an analytical backend for
// aggregate reporting. Unlike ExecutionStore it tolerates duplicates.
type OutcomeStore interface {
	// InsertOutcome appends one settled record.
	InsertOutcome(ctx context.Context, rec *domain.ExecutionRecord) error

	// OutcomeCounts returns settled-execution counts grouped by outcome
	// since the given Unix-ms timestamp.
	OutcomeCounts(ctx context.Context, sinceMs int64) (map[string]int64, error)

	// ProfitByVenue returns the summed realized profit in lamports grouped
	// by venue since the given Unix-ms timestamp.
	ProfitByVenue(ctx context.Context, sinceMs int64) (map[string]int64, error)
}
