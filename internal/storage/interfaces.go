package storage

import (
	"context"

	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/domain"
)

// TokenEventStore provides access to discovered-token storage.
type TokenEventStore interface {
	// Insert adds a discovered token. Returns ErrDuplicateKey if the mint exists.
	Insert(ctx context.Context, r *domain.TokenRecord) error

	// GetByMint retrieves a token by mint address. Returns ErrNotFound if not exists.
	GetByMint(ctx context.Context, mint string) (*domain.TokenRecord, error)

	// Recent retrieves the most recently discovered tokens, newest first.
	Recent(ctx context.Context, limit int) ([]*domain.TokenRecord, error)
}

// TradeLogStore provides access to trade-attempt storage. One row per
// attempt, successes and failures alike.
type TradeLogStore interface {
	// Insert appends a trade attempt.
	Insert(ctx context.Context, e *domain.TradeLogEntry) error

	// GetByMint retrieves all attempts for a mint, ordered by attempt time ASC.
	GetByMint(ctx context.Context, mint string) ([]*domain.TradeLogEntry, error)

	// Recent retrieves the most recent attempts, newest first.
	Recent(ctx context.Context, limit int) ([]*domain.TradeLogEntry, error)
}

// TradeTapeStore provides access to the observed trade stream. Volume is
// high, so writes go in batches and duplicates are tolerated.
type TradeTapeStore interface {
	// InsertBatch appends observed trades.
	InsertBatch(ctx context.Context, rows []*domain.TradeTapeRow) error

	// GetByMint retrieves observed trades for a mint within [start, end]
	// (inclusive, unix ms), ordered by observation time ASC.
	GetByMint(ctx context.Context, mint string, start, end int64) ([]*domain.TradeTapeRow, error)
}
