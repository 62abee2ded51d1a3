package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/domain"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/storage"
)

// TradeTapeStore is an in-memory implementation of storage.TradeTapeStore.
type TradeTapeStore struct {
	mu   sync.RWMutex
	rows []*domain.TradeTapeRow
}

// NewTradeTapeStore creates a new in-memory trade tape store.
func NewTradeTapeStore() *TradeTapeStore {
	return &TradeTapeStore{}
}

var _ storage.TradeTapeStore = (*TradeTapeStore)(nil)

// InsertBatch appends observed trades.
func (s *TradeTapeStore) InsertBatch(_ context.Context, rows []*domain.TradeTapeRow) error {
	if len(rows) == 0 {
		return nil
	}
	for _, r := range rows {
		if r == nil || r.Mint == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range rows {
		rowCopy := *r
		s.rows = append(s.rows, &rowCopy)
	}
	return nil
}

// GetByMint retrieves observed trades for a mint within [start, end]
// (inclusive, unix ms), ordered by observation time ASC.
func (s *TradeTapeStore) GetByMint(_ context.Context, mint string, start, end int64) ([]*domain.TradeTapeRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.TradeTapeRow
	for _, r := range s.rows {
		if r.Mint == mint && r.ObservedAtMs >= start && r.ObservedAtMs <= end {
			rowCopy := *r
			out = append(out, &rowCopy)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ObservedAtMs < out[j].ObservedAtMs
	})
	return out, nil
}
