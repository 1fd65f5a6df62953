package clickhouse

import (
	"context"
	"fmt"

	"solana-sandwich-engine/internal/domain"
	"solana-sandwich-engine/internal/storage"
)

// OutcomeStore implements storage.OutcomeStore using ClickHouse. The
// outcomes table is append-only; MergeTree does not enforce uniqueness and
// the aggregate queries tolerate the occasional duplicate row.
type OutcomeStore struct {
	conn *Conn
}

// NewOutcomeStore creates a new OutcomeStore.
func NewOutcomeStore(conn *Conn) *OutcomeStore {
	return &OutcomeStore{conn: conn}
}

// Compile-time interface check.
var _ storage.OutcomeStore = (*OutcomeStore)(nil)

// InsertOutcome appends one settled record.
func (s *OutcomeStore) InsertOutcome(ctx context.Context, rec *domain.ExecutionRecord) error {
	if rec == nil || rec.ExecutionID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO execution_outcomes (
			execution_id, target_signature, venue, mint,
			outcome, success,
			expected_profit, realized_profit,
			recovery_attempted, recovery_succeeded,
			started_at, settled_at, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := s.conn.Exec(ctx, query,
		rec.ExecutionID, rec.TargetSignature, rec.Venue, rec.Mint,
		rec.Outcome, rec.Success,
		rec.ExpectedProfit, rec.RealizedProfit,
		rec.RecoveryAttempted, rec.RecoverySucceeded,
		rec.StartedAt, rec.SettledAt, rec.SettledAt-rec.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("insert execution outcome: %w", err)
	}
	return nil
}

// OutcomeCounts returns settled-execution counts grouped by outcome since
// the given Unix-ms timestamp.
func (s *OutcomeStore) OutcomeCounts(ctx context.Context, sinceMs int64) (map[string]int64, error) {
	query := `
		SELECT outcome, count() AS total
		FROM execution_outcomes
		WHERE settled_at >= ?
		GROUP BY outcome
	`

	rows, err := s.conn.Query(ctx, query, sinceMs)
	if err != nil {
		return nil, fmt.Errorf("query outcome counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var outcome string
		var total uint64
		if err := rows.Scan(&outcome, &total); err != nil {
			return nil, fmt.Errorf("scan outcome count row: %w", err)
		}
		counts[outcome] = int64(total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcome count rows: %w", err)
	}

	return counts, nil
}

// ProfitByVenue returns the summed realized profit in lamports grouped by
// venue since the given Unix-ms timestamp.
func (s *OutcomeStore) ProfitByVenue(ctx context.Context, sinceMs int64) (map[string]int64, error) {
	query := `
		SELECT venue, sum(realized_profit) AS total
		FROM execution_outcomes
		WHERE settled_at >= ?
		GROUP BY venue
	`

	rows, err := s.conn.Query(ctx, query, sinceMs)
	if err != nil {
		return nil, fmt.Errorf("query profit by venue: %w", err)
	}
	defer rows.Close()

	profits := make(map[string]int64)
	for rows.Next() {
		var venue string
		var total int64
		if err := rows.Scan(&venue, &total); err != nil {
			return nil, fmt.Errorf("scan venue profit row: %w", err)
		}
		profits[venue] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate venue profit rows: %w", err)
	}

	return profits, nil
}
