package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/domain"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/storage"
)

func tokenRecord(mint string, discoveredAt int64) *domain.TokenRecord {
	return &domain.TokenRecord{
		Mint:           mint,
		Name:           "Token " + mint,
		Symbol:         "TKN",
		Creator:        "Creator1",
		Signature:      "sig-" + mint,
		DiscoveredAtMs: discoveredAt,
	}
}

func TestTokenEventStore_InsertAndGet(t *testing.T) {
	store := NewTokenEventStore()
	ctx := context.Background()

	rec := tokenRecord("M1", 1000)
	if err := store.Insert(ctx, rec); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := store.GetByMint(ctx, "M1")
	if err != nil {
		t.Fatalf("GetByMint: %v", err)
	}
	if got.Mint != "M1" || got.Name != "Token M1" {
		t.Errorf("got %+v", got)
	}

	// Returned copy must not alias the stored record.
	got.Name = "mutated"
	again, _ := store.GetByMint(ctx, "M1")
	if again.Name != "Token M1" {
		t.Error("store leaked internal pointer")
	}
}

func TestTokenEventStore_DuplicateMint(t *testing.T) {
	store := NewTokenEventStore()
	ctx := context.Background()

	if err := store.Insert(ctx, tokenRecord("M1", 1000)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	err := store.Insert(ctx, tokenRecord("M1", 2000))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestTokenEventStore_GetMissing(t *testing.T) {
	store := NewTokenEventStore()

	_, err := store.GetByMint(context.Background(), "nope")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTokenEventStore_InvalidInput(t *testing.T) {
	store := NewTokenEventStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("nil record: %v", err)
	}
	if err := store.Insert(ctx, &domain.TokenRecord{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("empty mint: %v", err)
	}
}

func TestTokenEventStore_Recent(t *testing.T) {
	store := NewTokenEventStore()
	ctx := context.Background()

	for i, mint := range []string{"A", "B", "C"} {
		if err := store.Insert(ctx, tokenRecord(mint, int64(1000+i))); err != nil {
			t.Fatalf("Insert %s: %v", mint, err)
		}
	}

	recent, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("len = %d, want 2", len(recent))
	}
	if recent[0].Mint != "C" || recent[1].Mint != "B" {
		t.Errorf("order = %s, %s; want C, B", recent[0].Mint, recent[1].Mint)
	}

	if _, err := store.Recent(ctx, 0); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("limit 0: %v", err)
	}
}
