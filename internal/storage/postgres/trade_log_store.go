package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/domain"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/storage"
)

// TradeLogStore implements storage.TradeLogStore using PostgreSQL.
type TradeLogStore struct {
	pool *Pool
}

// NewTradeLogStore creates a new TradeLogStore.
func NewTradeLogStore(pool *Pool) *TradeLogStore {
	return &TradeLogStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeLogStore = (*TradeLogStore)(nil)

const tradeLogColumns = `
	mint, direction, amount_in, expected_out, min_out, slippage_bps,
	success, signature, failure_class, error_text, attempted_at_ms
`

// Insert appends a trade attempt.
func (s *TradeLogStore) Insert(ctx context.Context, e *domain.TradeLogEntry) error {
	if e == nil || e.Mint == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO trade_log (` + tradeLogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.pool.Exec(ctx, query,
		e.Mint, string(e.Direction), int64(e.AmountIn), int64(e.ExpectedOut),
		int64(e.MinOut), int64(e.SlippageBps),
		e.Success, e.Signature, string(e.Failure), e.Err, e.AttemptedAt,
	)
	if err != nil {
		return fmt.Errorf("insert trade log entry: %w", err)
	}
	return nil
}

// GetByMint retrieves all attempts for a mint, ordered by attempt time ASC.
func (s *TradeLogStore) GetByMint(ctx context.Context, mint string) ([]*domain.TradeLogEntry, error) {
	query := `
		SELECT ` + tradeLogColumns + `
		FROM trade_log
		WHERE mint = $1
		ORDER BY attempted_at_ms ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, mint)
	if err != nil {
		return nil, fmt.Errorf("get trade log by mint: %w", err)
	}
	defer rows.Close()

	return scanTradeLogEntries(rows)
}

// Recent retrieves the most recent attempts, newest first.
func (s *TradeLogStore) Recent(ctx context.Context, limit int) ([]*domain.TradeLogEntry, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT ` + tradeLogColumns + `
		FROM trade_log
		ORDER BY attempted_at_ms DESC, id DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent trade log: %w", err)
	}
	defer rows.Close()

	return scanTradeLogEntries(rows)
}

// scanTradeLogEntries scans multiple rows into TradeLogEntry values.
func scanTradeLogEntries(rows pgx.Rows) ([]*domain.TradeLogEntry, error) {
	var entries []*domain.TradeLogEntry

	for rows.Next() {
		var e domain.TradeLogEntry
		var direction, failure string
		var amountIn, expectedOut, minOut, slippageBps int64

		err := rows.Scan(
			&e.Mint, &direction, &amountIn, &expectedOut, &minOut, &slippageBps,
			&e.Success, &e.Signature, &failure, &e.Err, &e.AttemptedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade log row: %w", err)
		}

		e.Direction = domain.Direction(direction)
		e.Failure = domain.FailureClass(failure)
		e.AmountIn = uint64(amountIn)
		e.ExpectedOut = uint64(expectedOut)
		e.MinOut = uint64(minOut)
		e.SlippageBps = uint64(slippageBps)
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade log rows: %w", err)
	}
	return entries, nil
}
