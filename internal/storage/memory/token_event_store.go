package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/domain"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/storage"
)

// TokenEventStore is an in-memory implementation of storage.TokenEventStore.
type TokenEventStore struct {
	mu     sync.RWMutex
	byMint map[string]*domain.TokenRecord
}

// NewTokenEventStore creates a new in-memory token event store.
func NewTokenEventStore() *TokenEventStore {
	return &TokenEventStore{
		byMint: make(map[string]*domain.TokenRecord),
	}
}

var _ storage.TokenEventStore = (*TokenEventStore)(nil)

// Insert adds a discovered token. Returns ErrDuplicateKey if the mint exists.
func (s *TokenEventStore) Insert(_ context.Context, r *domain.TokenRecord) error {
	if r == nil || r.Mint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byMint[r.Mint]; exists {
		return storage.ErrDuplicateKey
	}

	recCopy := *r
	s.byMint[r.Mint] = &recCopy
	return nil
}

// GetByMint retrieves a token by mint address. Returns ErrNotFound if not exists.
func (s *TokenEventStore) GetByMint(_ context.Context, mint string) (*domain.TokenRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.byMint[mint]
	if !exists {
		return nil, storage.ErrNotFound
	}

	recCopy := *r
	return &recCopy, nil
}

// Recent retrieves the most recently discovered tokens, newest first.
func (s *TokenEventStore) Recent(_ context.Context, limit int) ([]*domain.TokenRecord, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*domain.TokenRecord, 0, len(s.byMint))
	for _, r := range s.byMint {
		recCopy := *r
		records = append(records, &recCopy)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].DiscoveredAtMs != records[j].DiscoveredAtMs {
			return records[i].DiscoveredAtMs > records[j].DiscoveredAtMs
		}
		return records[i].Mint < records[j].Mint
	})

	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
