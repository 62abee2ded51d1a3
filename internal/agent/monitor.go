// Package agent wires the event feed, storage, analyzer and trader into the
// long-running monitor loop.
package agent

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/analysis"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/domain"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/observability"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/storage"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/stream"
)

// Default configuration values.
const (
	DefaultScoreThreshold = 70
	DefaultTapeBatchSize  = 100
	DefaultTapeFlushEvery = 5 * time.Second
)

const (
	lamportsPerSOL = 1_000_000_000
	// pump.fun mints use 6 decimals.
	tokenBaseUnits = 1_000_000
)

// Feed is the stream surface the monitor consumes.
type Feed interface {
	Connect(ctx context.Context) error
	Disconnect()
	SubscribeNewTokens(handler stream.NewTokenHandler)
	SubscribeTrades(mint string, handler stream.TradeHandler)
}

// Buyer executes buys. Satisfied by trader.Trader.
type Buyer interface {
	Buy(ctx context.Context, token *domain.TokenSnapshot, solAmount uint64) *domain.TradeResult
}

// TokenFetcher retrieves fresh curve state for a mint.
type TokenFetcher interface {
	FetchToken(ctx context.Context, mint string) (*domain.TokenSnapshot, error)
}

// Config controls monitor behavior.
type Config struct {
	// ScoreThreshold is the minimum assessment score for an auto-buy.
	ScoreThreshold int

	// AutoBuy enables trading; off means observe and log only.
	AutoBuy bool

	// BuyLamports is the spend per auto-buy.
	BuyLamports uint64

	// SlippageBps is recorded on trade log entries.
	SlippageBps uint64

	TapeBatchSize  int
	TapeFlushEvery time.Duration
}

// DefaultConfig returns the default monitor configuration.
func DefaultConfig() Config {
	return Config{
		ScoreThreshold: DefaultScoreThreshold,
		TapeBatchSize:  DefaultTapeBatchSize,
		TapeFlushEvery: DefaultTapeFlushEvery,
	}
}

// Monitor consumes the event feed, persists what it sees, and optionally
// trades on analyzer approval.
type Monitor struct {
	feed     Feed
	tokens   storage.TokenEventStore
	tape     storage.TradeTapeStore
	tradeLog storage.TradeLogStore
	analyzer analysis.Analyzer
	fetcher  TokenFetcher
	buyer    Buyer
	cfg      Config
	logger   *log.Logger

	// tradeMu serializes trade execution: one in flight at a time.
	tradeMu sync.Mutex

	bufMu   sync.Mutex
	tapeBuf []*domain.TradeTapeRow
}

// NewMonitor creates a monitor. analyzer, fetcher and buyer may be nil;
// the corresponding steps are skipped.
func NewMonitor(
	feed Feed,
	tokens storage.TokenEventStore,
	tape storage.TradeTapeStore,
	tradeLog storage.TradeLogStore,
	analyzer analysis.Analyzer,
	fetcher TokenFetcher,
	buyer Buyer,
	cfg Config,
	logger *log.Logger,
) *Monitor {
	if cfg.TapeBatchSize <= 0 {
		cfg.TapeBatchSize = DefaultTapeBatchSize
	}
	if cfg.TapeFlushEvery <= 0 {
		cfg.TapeFlushEvery = DefaultTapeFlushEvery
	}
	return &Monitor{
		feed:     feed,
		tokens:   tokens,
		tape:     tape,
		tradeLog: tradeLog,
		analyzer: analyzer,
		fetcher:  fetcher,
		buyer:    buyer,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run connects the feed and blocks until ctx is canceled. The tape buffer
// is flushed on exit.
func (m *Monitor) Run(ctx context.Context) error {
	m.feed.SubscribeNewTokens(func(e *domain.NewTokenEvent) {
		m.handleNewToken(ctx, e)
	})

	if err := m.feed.Connect(ctx); err != nil {
		return err
	}
	defer m.feed.Disconnect()

	ticker := time.NewTicker(m.cfg.TapeFlushEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.flushTape(context.Background())
			return ctx.Err()
		case <-ticker.C:
			m.flushTape(ctx)
		}
	}
}

func (m *Monitor) handleNewToken(ctx context.Context, e *domain.NewTokenEvent) {
	observability.RecordStreamEvent("create")
	m.logger.Printf("[monitor] new token %s (%s) mcap=%.2f SOL", e.Symbol, e.Mint, e.MarketCapSOL)

	rec := &domain.TokenRecord{
		Mint:            e.Mint,
		Name:            e.Name,
		Symbol:          e.Symbol,
		URI:             e.URI,
		Creator:         e.Trader,
		BondingCurveKey: e.BondingCurveKey,
		Signature:       e.Signature,
		InitialBuySOL:   e.SOLAmount,
		MarketCapSOL:    e.MarketCapSOL,
		DiscoveredAtMs:  time.Now().UnixMilli(),
	}
	if err := m.tokens.Insert(ctx, rec); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		observability.RecordStoreWriteError("token_events")
		m.logger.Printf("[monitor] store token %s: %v", e.Mint, err)
	}

	// Watch the new token's trades on the tape.
	m.feed.SubscribeTrades(e.Mint, m.handleTrade)

	if m.analyzer == nil {
		return
	}
	go m.assess(ctx, e)
}

func (m *Monitor) assess(ctx context.Context, e *domain.NewTokenEvent) {
	snap := m.snapshotFor(ctx, e)

	start := time.Now()
	assessment, err := m.analyzer.Analyze(ctx, snap)
	if err != nil {
		observability.RecordAnalyzerFailure()
		m.logger.Printf("[monitor] analyze %s: %v", e.Mint, err)
		return
	}
	observability.RecordAnalysis(string(assessment.Recommendation), time.Since(start).Seconds())
	m.logger.Printf("[monitor] assessment %s: %s score=%d (%s)",
		e.Mint, assessment.Recommendation, assessment.Score, assessment.Rationale)

	if !m.cfg.AutoBuy || m.buyer == nil {
		return
	}
	if assessment.Recommendation != domain.RecommendBuy || assessment.Score < m.cfg.ScoreThreshold {
		return
	}

	m.executeBuy(ctx, snap)
}

// snapshotFor fetches fresh curve state, falling back to the reserves the
// creation event reported.
func (m *Monitor) snapshotFor(ctx context.Context, e *domain.NewTokenEvent) *domain.TokenSnapshot {
	if m.fetcher != nil {
		snap, err := m.fetcher.FetchToken(ctx, e.Mint)
		if err == nil {
			return snap
		}
		m.logger.Printf("[monitor] fetch token %s: %v", e.Mint, err)
	}

	return &domain.TokenSnapshot{
		Mint:                 e.Mint,
		Name:                 e.Name,
		Symbol:               e.Symbol,
		BondingCurve:         e.BondingCurveKey,
		Creator:              e.Trader,
		VirtualSolReserves:   displayToBase(e.VSolReserves, lamportsPerSOL),
		VirtualTokenReserves: displayToBase(e.VTokenReserves, tokenBaseUnits),
	}
}

func (m *Monitor) executeBuy(ctx context.Context, snap *domain.TokenSnapshot) {
	m.tradeMu.Lock()
	defer m.tradeMu.Unlock()

	start := time.Now()
	result := m.buyer.Buy(ctx, snap, m.cfg.BuyLamports)
	observability.RecordTradeLatency(string(domain.DirectionBuy), time.Since(start).Seconds())

	entry := &domain.TradeLogEntry{
		Mint:        snap.Mint,
		Direction:   domain.DirectionBuy,
		AmountIn:    m.cfg.BuyLamports,
		ExpectedOut: result.AmountOut,
		SlippageBps: m.cfg.SlippageBps,
		Success:     result.Success,
		Signature:   result.Signature,
		Failure:     result.Failure,
		Err:         result.Err,
		AttemptedAt: start.UnixMilli(),
	}
	if err := m.tradeLog.Insert(ctx, entry); err != nil {
		observability.RecordStoreWriteError("trade_log")
		m.logger.Printf("[monitor] log trade %s: %v", snap.Mint, err)
	}

	if result.Success {
		observability.RecordTradeSubmitted(string(domain.DirectionBuy))
		m.logger.Printf("[monitor] bought %s: sig=%s out=%d", snap.Mint, result.Signature, result.AmountOut)
	} else {
		observability.RecordTradeFailed(string(domain.DirectionBuy), string(result.Failure))
		m.logger.Printf("[monitor] buy %s failed: %s %s", snap.Mint, result.Failure, result.Err)
	}
}

func (m *Monitor) handleTrade(e *domain.TradeEvent) {
	observability.RecordStreamEvent(string(e.Direction))

	row := &domain.TradeTapeRow{
		Mint:           e.Mint,
		Direction:      e.Direction,
		Signature:      e.Signature,
		Trader:         e.Trader,
		SOLAmount:      e.SOLAmount,
		TokenAmount:    e.TokenAmount,
		MarketCapSOL:   e.MarketCapSOL,
		VSolReserves:   e.VSolReserves,
		VTokenReserves: e.VTokenReserves,
		ObservedAtMs:   time.Now().UnixMilli(),
	}

	m.bufMu.Lock()
	m.tapeBuf = append(m.tapeBuf, row)
	full := len(m.tapeBuf) >= m.cfg.TapeBatchSize
	m.bufMu.Unlock()

	if full {
		m.flushTape(context.Background())
	}
}

// flushTape writes buffered tape rows in one batch.
func (m *Monitor) flushTape(ctx context.Context) {
	m.bufMu.Lock()
	batch := m.tapeBuf
	m.tapeBuf = nil
	m.bufMu.Unlock()

	if len(batch) == 0 {
		return
	}
	if err := m.tape.InsertBatch(ctx, batch); err != nil {
		observability.RecordStoreWriteError("trade_tape")
		m.logger.Printf("[monitor] flush tape (%d rows): %v", len(batch), err)
	}
}

// displayToBase converts a display-unit amount to base units.
func displayToBase(v float64, unitsPer int64) uint64 {
	return decimal.NewFromFloat(v).Mul(decimal.NewFromInt(unitsPer)).BigInt().Uint64()
}
