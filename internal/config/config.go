// Package config loads agent configuration from the environment, with an
// optional .env file for local runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultRPCEndpoint    = "https://api.mainnet-beta.solana.com"
	DefaultStreamEndpoint = "wss://pumpportal.fun/api/data"
	DefaultMaxBuySOL      = "0.1"
	DefaultSlippageBps    = 500
	DefaultMetricsAddr    = ":9090"
)

const lamportsPerSOL = 1_000_000_000

// Config is the full agent configuration.
type Config struct {
	RPCEndpoint    string
	StreamEndpoint string

	// WalletSecret is the base58-encoded 64-byte secret key. Required for
	// trading; the monitor-only path runs without it.
	WalletSecret string

	MaxBuyLamports uint64
	SlippageBps    uint64

	// Empty DSNs select the in-memory stores.
	PostgresDSN   string
	ClickHouseDSN string

	AnalyzerAPIKey string
	AnalyzerModel  string

	AutoBuy     bool
	MetricsAddr string
}

// Load reads the environment, after merging a .env file if one is present.
func Load() (*Config, error) {
	// Missing .env is the normal deployed case.
	_ = godotenv.Load()

	cfg := &Config{
		RPCEndpoint:    DefaultRPCEndpoint,
		StreamEndpoint: DefaultStreamEndpoint,
		SlippageBps:    DefaultSlippageBps,
		MetricsAddr:    DefaultMetricsAddr,
	}

	setStr(&cfg.RPCEndpoint, "RPC_ENDPOINT")
	setStr(&cfg.StreamEndpoint, "STREAM_ENDPOINT")
	setStr(&cfg.WalletSecret, "WALLET_SECRET_KEY")
	setStr(&cfg.PostgresDSN, "POSTGRES_DSN")
	setStr(&cfg.ClickHouseDSN, "CLICKHOUSE_DSN")
	setStr(&cfg.AnalyzerAPIKey, "ANTHROPIC_API_KEY")
	setStr(&cfg.AnalyzerModel, "ANALYZER_MODEL")
	setStr(&cfg.MetricsAddr, "METRICS_ADDR")
	setBool(&cfg.AutoBuy, "AUTO_BUY")
	setUint64(&cfg.SlippageBps, "SLIPPAGE_BPS")

	maxBuySOL := DefaultMaxBuySOL
	setStr(&maxBuySOL, "MAX_BUY_SOL")
	lamports, err := solToLamports(maxBuySOL)
	if err != nil {
		return nil, fmt.Errorf("MAX_BUY_SOL: %w", err)
	}
	cfg.MaxBuyLamports = lamports

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.RPCEndpoint == "" {
		return errors.New("RPC_ENDPOINT must not be empty")
	}
	if c.StreamEndpoint == "" {
		return errors.New("STREAM_ENDPOINT must not be empty")
	}
	if c.SlippageBps > 10_000 {
		return fmt.Errorf("SLIPPAGE_BPS %d exceeds 10000", c.SlippageBps)
	}
	if c.AutoBuy && c.WalletSecret == "" {
		return errors.New("AUTO_BUY requires WALLET_SECRET_KEY")
	}
	if c.AutoBuy && c.AnalyzerAPIKey == "" {
		return errors.New("AUTO_BUY requires ANTHROPIC_API_KEY")
	}
	return nil
}

// solToLamports converts a decimal SOL string to lamports. Negative values
// are rejected; sub-lamport precision is truncated.
func solToLamports(s string) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount %q is negative", s)
	}
	return d.Mul(decimal.NewFromInt(lamportsPerSOL)).BigInt().Uint64(), nil
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setUint64(dst *uint64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			*dst = n
		}
	}
}
