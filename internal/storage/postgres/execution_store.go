package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-sandwich-engine/internal/domain"
	"solana-sandwich-engine/internal/storage"
)

// ExecutionStore implements storage.ExecutionStore using PostgreSQL.
type ExecutionStore struct {
	pool *Pool
}

// NewExecutionStore creates a new ExecutionStore.
func NewExecutionStore(pool *Pool) *ExecutionStore {
	return &ExecutionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ExecutionStore = (*ExecutionStore)(nil)

const executionColumns = `
	execution_id, target_signature, venue, mint, state,
	buy_signature, sell_signature,
	success, outcome, expected_profit, realized_profit,
	recovery_attempted, recovery_succeeded,
	started_at, settled_at
`

// SaveExecution inserts a settled record. Returns ErrDuplicateKey if the
// execution ID already exists.
func (s *ExecutionStore) SaveExecution(ctx context.Context, rec *domain.ExecutionRecord) error {
	if rec == nil || rec.ExecutionID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO execution_records (` + executionColumns + `) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7,
			$8, $9, $10, $11,
			$12, $13,
			$14, $15
		)
	`

	_, err := s.pool.Exec(ctx, query,
		rec.ExecutionID, rec.TargetSignature, rec.Venue, rec.Mint, string(rec.State),
		rec.BuySignature, rec.SellSignature,
		rec.Success, rec.Outcome, rec.ExpectedProfit, rec.RealizedProfit,
		rec.RecoveryAttempted, rec.RecoverySucceeded,
		rec.StartedAt, rec.SettledAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert execution record: %w", err)
	}
	return nil
}

// GetByID retrieves a record by execution ID. Returns ErrNotFound if not
// exists.
func (s *ExecutionStore) GetByID(ctx context.Context, executionID string) (*domain.ExecutionRecord, error) {
	query := `SELECT ` + executionColumns + ` FROM execution_records WHERE execution_id = $1`

	row := s.pool.QueryRow(ctx, query, executionID)
	rec, err := scanExecutionRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get execution record by id: %w", err)
	}
	return rec, nil
}

// GetByTarget retrieves all records for a target signature, ordered by
// start time ascending.
func (s *ExecutionStore) GetByTarget(ctx context.Context, targetSignature string) ([]*domain.ExecutionRecord, error) {
	query := `
		SELECT ` + executionColumns + `
		FROM execution_records
		WHERE target_signature = $1
		ORDER BY started_at ASC, execution_id ASC
	`

	rows, err := s.pool.Query(ctx, query, targetSignature)
	if err != nil {
		return nil, fmt.Errorf("get execution records by target: %w", err)
	}
	defer rows.Close()

	return scanExecutionRecords(rows)
}

// GetRecent retrieves the most recently settled records, newest first.
func (s *ExecutionStore) GetRecent(ctx context.Context, limit int) ([]*domain.ExecutionRecord, error) {
	query := `
		SELECT ` + executionColumns + `
		FROM execution_records
		ORDER BY settled_at DESC, execution_id ASC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent execution records: %w", err)
	}
	defer rows.Close()

	return scanExecutionRecords(rows)
}

// scanExecutionRecord scans a single row into an ExecutionRecord.
func scanExecutionRecord(row pgx.Row) (*domain.ExecutionRecord, error) {
	var rec domain.ExecutionRecord
	var state string

	err := row.Scan(
		&rec.ExecutionID, &rec.TargetSignature, &rec.Venue, &rec.Mint, &state,
		&rec.BuySignature, &rec.SellSignature,
		&rec.Success, &rec.Outcome, &rec.ExpectedProfit, &rec.RealizedProfit,
		&rec.RecoveryAttempted, &rec.RecoverySucceeded,
		&rec.StartedAt, &rec.SettledAt,
	)
	if err != nil {
		return nil, err
	}

	rec.State = domain.ExecutionState(state)
	return &rec, nil
}

// scanExecutionRecords scans multiple rows into a slice of ExecutionRecord.
func scanExecutionRecords(rows pgx.Rows) ([]*domain.ExecutionRecord, error) {
	var recs []*domain.ExecutionRecord

	for rows.Next() {
		rec, err := scanExecutionRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan execution record row: %w", err)
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate execution record rows: %w", err)
	}

	return recs, nil
}
