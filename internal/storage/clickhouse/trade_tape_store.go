package clickhouse

import (
	"context"
	"fmt"

	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/domain"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/storage"
)

// TradeTapeStore implements storage.TradeTapeStore using ClickHouse.
type TradeTapeStore struct {
	conn *Conn
}

// NewTradeTapeStore creates a new TradeTapeStore.
func NewTradeTapeStore(conn *Conn) *TradeTapeStore {
	return &TradeTapeStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TradeTapeStore = (*TradeTapeStore)(nil)

// InsertBatch appends observed trades. MergeTree does not enforce
// uniqueness; duplicate observations are acceptable on the tape.
func (s *TradeTapeStore) InsertBatch(ctx context.Context, rows []*domain.TradeTapeRow) error {
	if len(rows) == 0 {
		return nil
	}
	for _, r := range rows {
		if r == nil || r.Mint == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO trade_tape (
			mint, direction, signature, trader,
			sol_amount, token_amount, market_cap_sol,
			v_sol_reserves, v_token_reserves, observed_at_ms
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range rows {
		err = batch.Append(
			r.Mint, string(r.Direction), r.Signature, r.Trader,
			r.SOLAmount, r.TokenAmount, r.MarketCapSOL,
			r.VSolReserves, r.VTokenReserves, uint64(r.ObservedAtMs),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByMint retrieves observed trades for a mint within [start, end]
// (inclusive, unix ms), ordered by observation time ASC.
func (s *TradeTapeStore) GetByMint(ctx context.Context, mint string, start, end int64) ([]*domain.TradeTapeRow, error) {
	query := `
		SELECT mint, direction, signature, trader,
		       sol_amount, token_amount, market_cap_sol,
		       v_sol_reserves, v_token_reserves, observed_at_ms
		FROM trade_tape
		WHERE mint = ? AND observed_at_ms >= ? AND observed_at_ms <= ?
		ORDER BY observed_at_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, mint, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query trade tape by mint: %w", err)
	}
	defer rows.Close()

	var out []*domain.TradeTapeRow
	for rows.Next() {
		var r domain.TradeTapeRow
		var direction string
		var observedAt uint64

		err := rows.Scan(
			&r.Mint, &direction, &r.Signature, &r.Trader,
			&r.SOLAmount, &r.TokenAmount, &r.MarketCapSOL,
			&r.VSolReserves, &r.VTokenReserves, &observedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade tape row: %w", err)
		}

		r.Direction = domain.Direction(direction)
		r.ObservedAtMs = int64(observedAt)
		out = append(out, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade tape rows: %w", err)
	}
	return out, nil
}
