package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/domain"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/storage"
)

// TradeLogStore is an in-memory implementation of storage.TradeLogStore.
type TradeLogStore struct {
	mu      sync.RWMutex
	entries []*domain.TradeLogEntry
}

// NewTradeLogStore creates a new in-memory trade log store.
func NewTradeLogStore() *TradeLogStore {
	return &TradeLogStore{}
}

var _ storage.TradeLogStore = (*TradeLogStore)(nil)

// Insert appends a trade attempt.
func (s *TradeLogStore) Insert(_ context.Context, e *domain.TradeLogEntry) error {
	if e == nil || e.Mint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entryCopy := *e
	s.entries = append(s.entries, &entryCopy)
	return nil
}

// GetByMint retrieves all attempts for a mint, ordered by attempt time ASC.
func (s *TradeLogStore) GetByMint(_ context.Context, mint string) ([]*domain.TradeLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.TradeLogEntry
	for _, e := range s.entries {
		if e.Mint == mint {
			entryCopy := *e
			out = append(out, &entryCopy)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].AttemptedAt < out[j].AttemptedAt
	})
	return out, nil
}

// Recent retrieves the most recent attempts, newest first.
func (s *TradeLogStore) Recent(_ context.Context, limit int) ([]*domain.TradeLogEntry, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.TradeLogEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entryCopy := *e
		out = append(out, &entryCopy)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AttemptedAt > out[j].AttemptedAt
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
