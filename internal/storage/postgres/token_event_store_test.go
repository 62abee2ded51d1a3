package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/domain"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/storage"
)

func testTokenRecord(mint string, discoveredAt int64) *domain.TokenRecord {
	return &domain.TokenRecord{
		Mint:            mint,
		Name:            "Token " + mint,
		Symbol:          "TKN",
		URI:             "https://example.com/" + mint + ".json",
		Creator:         "Creator111",
		BondingCurveKey: "Curve111",
		Signature:       "sig-" + mint,
		InitialBuySOL:   1.25,
		MarketCapSOL:    31.5,
		DiscoveredAtMs:  discoveredAt,
	}
}

func TestTokenEventStore_InsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTokenEventStore(pool)
	ctx := context.Background()

	rec := testTokenRecord("M1", 1000)
	require.NoError(t, store.Insert(ctx, rec))

	got, err := store.GetByMint(ctx, "M1")
	require.NoError(t, err)
	require.Equal(t, rec, got)
}

func TestTokenEventStore_DuplicateMint(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTokenEventStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testTokenRecord("M1", 1000)))

	err := store.Insert(ctx, testTokenRecord("M1", 2000))
	require.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestTokenEventStore_GetMissing(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTokenEventStore(pool)

	_, err := store.GetByMint(context.Background(), "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTokenEventStore_Recent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTokenEventStore(pool)
	ctx := context.Background()

	for i, mint := range []string{"A", "B", "C"} {
		require.NoError(t, store.Insert(ctx, testTokenRecord(mint, int64(1000+i))))
	}

	recent, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "C", recent[0].Mint)
	require.Equal(t, "B", recent[1].Mint)

	_, err = store.Recent(ctx, 0)
	require.ErrorIs(t, err, storage.ErrInvalidInput)
}
