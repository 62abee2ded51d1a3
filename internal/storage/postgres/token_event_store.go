package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/domain"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/storage"
)

// TokenEventStore implements storage.TokenEventStore using PostgreSQL.
type TokenEventStore struct {
	pool *Pool
}

// NewTokenEventStore creates a new TokenEventStore.
func NewTokenEventStore(pool *Pool) *TokenEventStore {
	return &TokenEventStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenEventStore = (*TokenEventStore)(nil)

const tokenEventColumns = `
	mint, name, symbol, uri, creator, bonding_curve_key,
	signature, initial_buy_sol, market_cap_sol, discovered_at_ms
`

// Insert adds a discovered token. Returns ErrDuplicateKey if the mint exists.
func (s *TokenEventStore) Insert(ctx context.Context, r *domain.TokenRecord) error {
	if r == nil || r.Mint == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO token_events (` + tokenEventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.pool.Exec(ctx, query,
		r.Mint, r.Name, r.Symbol, r.URI, r.Creator, r.BondingCurveKey,
		r.Signature, r.InitialBuySOL, r.MarketCapSOL, r.DiscoveredAtMs,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert token event: %w", err)
	}
	return nil
}

// GetByMint retrieves a token by mint address. Returns ErrNotFound if not exists.
func (s *TokenEventStore) GetByMint(ctx context.Context, mint string) (*domain.TokenRecord, error) {
	query := `
		SELECT ` + tokenEventColumns + `
		FROM token_events
		WHERE mint = $1
	`

	row := s.pool.QueryRow(ctx, query, mint)
	r, err := scanTokenRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token event by mint: %w", err)
	}
	return r, nil
}

// Recent retrieves the most recently discovered tokens, newest first.
func (s *TokenEventStore) Recent(ctx context.Context, limit int) ([]*domain.TokenRecord, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT ` + tokenEventColumns + `
		FROM token_events
		ORDER BY discovered_at_ms DESC, mint ASC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent token events: %w", err)
	}
	defer rows.Close()

	var records []*domain.TokenRecord
	for rows.Next() {
		r, err := scanTokenRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan token event row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token event rows: %w", err)
	}
	return records, nil
}

// scanTokenRecord scans a single row into a TokenRecord.
func scanTokenRecord(row pgx.Row) (*domain.TokenRecord, error) {
	var r domain.TokenRecord

	err := row.Scan(
		&r.Mint, &r.Name, &r.Symbol, &r.URI, &r.Creator, &r.BondingCurveKey,
		&r.Signature, &r.InitialBuySOL, &r.MarketCapSOL, &r.DiscoveredAtMs,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
