package memory

import (
	"context"
	"errors"
	"testing"

	"solana-sandwich-engine/internal/domain"
	"solana-sandwich-engine/internal/storage"
)

func sampleRecord(id, target string, settledAt int64) *domain.ExecutionRecord {
	return &domain.ExecutionRecord{
		ExecutionID:     id,
		TargetSignature: target,
		Venue:           domain.VenueRaydium,
		Mint:            "mintA",
		State:           domain.StateSettled,
		Outcome:         domain.OutcomeSuccess,
		Success:         true,
		ExpectedProfit:  1000,
		RealizedProfit:  900,
		StartedAt:       settledAt - 100,
		SettledAt:       settledAt,
	}
}

func TestExecutionStore_SaveAndGet(t *testing.T) {
	store := NewExecutionStore()
	ctx := context.Background()

	rec := sampleRecord("exec-1", "target-1", 1000)
	if err := store.SaveExecution(ctx, rec); err != nil {
		t.Fatalf("SaveExecution: %v", err)
	}

	got, err := store.GetByID(ctx, "exec-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.TargetSignature != "target-1" || got.Outcome != domain.OutcomeSuccess {
		t.Errorf("unexpected record: %+v", got)
	}

	// Mutating the returned copy must not affect the store.
	got.Outcome = "MUTATED"
	again, err := store.GetByID(ctx, "exec-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if again.Outcome != domain.OutcomeSuccess {
		t.Errorf("store leaked internal state")
	}
}

func TestExecutionStore_DuplicateKey(t *testing.T) {
	store := NewExecutionStore()
	ctx := context.Background()

	if err := store.SaveExecution(ctx, sampleRecord("exec-1", "target-1", 1000)); err != nil {
		t.Fatalf("SaveExecution: %v", err)
	}
	err := store.SaveExecution(ctx, sampleRecord("exec-1", "target-2", 2000))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestExecutionStore_InvalidInput(t *testing.T) {
	store := NewExecutionStore()

	if err := store.SaveExecution(context.Background(), nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("nil record: expected ErrInvalidInput, got %v", err)
	}
	if err := store.SaveExecution(context.Background(), &domain.ExecutionRecord{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("empty ID: expected ErrInvalidInput, got %v", err)
	}
}

func TestExecutionStore_GetByID_NotFound(t *testing.T) {
	store := NewExecutionStore()

	_, err := store.GetByID(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExecutionStore_GetByTarget(t *testing.T) {
	store := NewExecutionStore()
	ctx := context.Background()

	for _, rec := range []*domain.ExecutionRecord{
		sampleRecord("exec-2", "target-1", 2000),
		sampleRecord("exec-1", "target-1", 1000),
		sampleRecord("exec-3", "target-2", 3000),
	} {
		if err := store.SaveExecution(ctx, rec); err != nil {
			t.Fatalf("SaveExecution: %v", err)
		}
	}

	recs, err := store.GetByTarget(ctx, "target-1")
	if err != nil {
		t.Fatalf("GetByTarget: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].ExecutionID != "exec-1" || recs[1].ExecutionID != "exec-2" {
		t.Errorf("records not ordered by start time: %s, %s", recs[0].ExecutionID, recs[1].ExecutionID)
	}
}

func TestExecutionStore_GetRecent(t *testing.T) {
	store := NewExecutionStore()
	ctx := context.Background()

	for _, rec := range []*domain.ExecutionRecord{
		sampleRecord("exec-1", "target-1", 1000),
		sampleRecord("exec-2", "target-2", 3000),
		sampleRecord("exec-3", "target-3", 2000),
	} {
		if err := store.SaveExecution(ctx, rec); err != nil {
			t.Fatalf("SaveExecution: %v", err)
		}
	}

	recs, err := store.GetRecent(ctx, 2)
	if err != nil {
		t.Fatalf("GetRecent: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].ExecutionID != "exec-2" || recs[1].ExecutionID != "exec-3" {
		t.Errorf("records not ordered newest first: %s, %s", recs[0].ExecutionID, recs[1].ExecutionID)
	}
}
