package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/domain"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/storage"
)

func testTapeRow(mint string, observedAt int64, dir domain.Direction) *domain.TradeTapeRow {
	return &domain.TradeTapeRow{
		Mint:           mint,
		Direction:      dir,
		Signature:      "sig",
		Trader:         "Trader1",
		SOLAmount:      0.25,
		TokenAmount:    7_500_000,
		MarketCapSOL:   32.1,
		VSolReserves:   30.25,
		VTokenReserves: 1_065_500_000,
		ObservedAtMs:   observedAt,
	}
}

func TestTradeTapeStore_InsertBatchAndGet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeTapeStore(conn)
	ctx := context.Background()

	batch := []*domain.TradeTapeRow{
		testTapeRow("M1", 1000, domain.DirectionBuy),
		testTapeRow("M1", 3000, domain.DirectionSell),
		testTapeRow("M2", 2000, domain.DirectionBuy),
	}
	require.NoError(t, store.InsertBatch(ctx, batch))

	rows, err := store.GetByMint(ctx, "M1", 0, 5000)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, int64(1000), rows[0].ObservedAtMs)
	require.Equal(t, domain.DirectionBuy, rows[0].Direction)
	require.Equal(t, int64(3000), rows[1].ObservedAtMs)
	require.Equal(t, domain.DirectionSell, rows[1].Direction)
	require.InDelta(t, 0.25, rows[0].SOLAmount, 1e-9)
}

func TestTradeTapeStore_TimeRange(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeTapeStore(conn)
	ctx := context.Background()

	require.NoError(t, store.InsertBatch(ctx, []*domain.TradeTapeRow{
		testTapeRow("M1", 1000, domain.DirectionBuy),
		testTapeRow("M1", 2000, domain.DirectionBuy),
		testTapeRow("M1", 3000, domain.DirectionBuy),
	}))

	// Bounds are inclusive.
	rows, err := store.GetByMint(ctx, "M1", 2000, 3000)
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestTradeTapeStore_EmptyBatch(t *testing.T) {
	store := NewTradeTapeStore(nil)

	require.NoError(t, store.InsertBatch(context.Background(), nil))
}

func TestTradeTapeStore_InvalidRow(t *testing.T) {
	store := NewTradeTapeStore(nil)

	err := store.InsertBatch(context.Background(), []*domain.TradeTapeRow{{}})
	require.ErrorIs(t, err, storage.ErrInvalidInput)
}
