// Package analysis scores newly discovered tokens. The model behind the
// boundary is treated as opaque; callers only see a structured assessment.
package analysis

import (
	"context"

	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/domain"
)

// Analyzer produces a buy/skip assessment for a token snapshot.
type Analyzer interface {
	Analyze(ctx context.Context, snap *domain.TokenSnapshot) (*domain.Assessment, error)
}
