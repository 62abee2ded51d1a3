package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/domain"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/storage"
)

func tapeRow(mint string, observedAt int64, dir domain.Direction) *domain.TradeTapeRow {
	return &domain.TradeTapeRow{
		Mint:         mint,
		Direction:    dir,
		Signature:    "sig",
		Trader:       "Trader1",
		SOLAmount:    0.25,
		TokenAmount:  7_500_000,
		ObservedAtMs: observedAt,
	}
}

func TestTradeTapeStore_InsertBatchAndGet(t *testing.T) {
	store := NewTradeTapeStore()
	ctx := context.Background()

	batch := []*domain.TradeTapeRow{
		tapeRow("M1", 3000, domain.DirectionSell),
		tapeRow("M1", 1000, domain.DirectionBuy),
		tapeRow("M2", 2000, domain.DirectionBuy),
	}
	if err := store.InsertBatch(ctx, batch); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	rows, err := store.GetByMint(ctx, "M1", 0, 5000)
	if err != nil {
		t.Fatalf("GetByMint: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
	if rows[0].ObservedAtMs != 1000 || rows[1].ObservedAtMs != 3000 {
		t.Errorf("not ordered: %d, %d", rows[0].ObservedAtMs, rows[1].ObservedAtMs)
	}
}

func TestTradeTapeStore_TimeRange(t *testing.T) {
	store := NewTradeTapeStore()
	ctx := context.Background()

	for _, ts := range []int64{1000, 2000, 3000} {
		if err := store.InsertBatch(ctx, []*domain.TradeTapeRow{tapeRow("M1", ts, domain.DirectionBuy)}); err != nil {
			t.Fatalf("InsertBatch: %v", err)
		}
	}

	// Bounds are inclusive.
	rows, err := store.GetByMint(ctx, "M1", 2000, 3000)
	if err != nil {
		t.Fatalf("GetByMint: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("len = %d, want 2", len(rows))
	}
}

func TestTradeTapeStore_EmptyBatch(t *testing.T) {
	store := NewTradeTapeStore()

	if err := store.InsertBatch(context.Background(), nil); err != nil {
		t.Errorf("empty batch must be a no-op, got %v", err)
	}
}

func TestTradeTapeStore_InvalidRow(t *testing.T) {
	store := NewTradeTapeStore()

	err := store.InsertBatch(context.Background(), []*domain.TradeTapeRow{{}})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
