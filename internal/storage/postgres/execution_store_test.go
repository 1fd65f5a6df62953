package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-sandwich-engine/internal/domain"
	"solana-sandwich-engine/internal/storage"
)

func sampleRecord(id, target string, settledAt int64) *domain.ExecutionRecord {
	return &domain.ExecutionRecord{
		ExecutionID:       id,
		TargetSignature:   target,
		Venue:             domain.VenueRaydium,
		Mint:              "mintA",
		State:             domain.StateSettled,
		BuySignature:      "buy-" + id,
		SellSignature:     "sell-" + id,
		Success:           true,
		Outcome:           domain.OutcomeSuccess,
		ExpectedProfit:    50_000_000,
		RealizedProfit:    42_000_000,
		RecoveryAttempted: false,
		RecoverySucceeded: false,
		StartedAt:         settledAt - 250,
		SettledAt:         settledAt,
	}
}

func TestExecutionStore_SaveAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewExecutionStore(pool)
	ctx := context.Background()

	rec := sampleRecord("exec-1", "target-1", 1_700_000_000_000)
	rec.RecoveryAttempted = true
	rec.RecoverySucceeded = true
	require.NoError(t, store.SaveExecution(ctx, rec))

	got, err := store.GetByID(ctx, "exec-1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestExecutionStore_DuplicateKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewExecutionStore(pool)
	ctx := context.Background()

	require.NoError(t, store.SaveExecution(ctx, sampleRecord("exec-1", "target-1", 1000)))

	err := store.SaveExecution(ctx, sampleRecord("exec-1", "target-2", 2000))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestExecutionStore_GetByID_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewExecutionStore(pool)

	_, err := store.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestExecutionStore_GetByTarget(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewExecutionStore(pool)
	ctx := context.Background()

	require.NoError(t, store.SaveExecution(ctx, sampleRecord("exec-2", "target-1", 2000)))
	require.NoError(t, store.SaveExecution(ctx, sampleRecord("exec-1", "target-1", 1000)))
	require.NoError(t, store.SaveExecution(ctx, sampleRecord("exec-3", "target-2", 3000)))

	recs, err := store.GetByTarget(ctx, "target-1")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "exec-1", recs[0].ExecutionID)
	assert.Equal(t, "exec-2", recs[1].ExecutionID)
}

func TestExecutionStore_GetRecent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewExecutionStore(pool)
	ctx := context.Background()

	require.NoError(t, store.SaveExecution(ctx, sampleRecord("exec-1", "target-1", 1000)))
	require.NoError(t, store.SaveExecution(ctx, sampleRecord("exec-2", "target-2", 3000)))
	require.NoError(t, store.SaveExecution(ctx, sampleRecord("exec-3", "target-3", 2000)))

	recs, err := store.GetRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "exec-2", recs[0].ExecutionID)
	assert.Equal(t, "exec-3", recs[1].ExecutionID)
}
