package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.RPCEndpoint != DefaultRPCEndpoint {
		t.Errorf("rpc endpoint = %s", cfg.RPCEndpoint)
	}
	if cfg.StreamEndpoint != DefaultStreamEndpoint {
		t.Errorf("stream endpoint = %s", cfg.StreamEndpoint)
	}
	if cfg.SlippageBps != DefaultSlippageBps {
		t.Errorf("slippage = %d", cfg.SlippageBps)
	}
	// 0.1 SOL
	if cfg.MaxBuyLamports != 100_000_000 {
		t.Errorf("max buy = %d lamports, want 100000000", cfg.MaxBuyLamports)
	}
	if cfg.AutoBuy {
		t.Error("auto buy must default to off")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RPC_ENDPOINT", "https://rpc.example.com")
	t.Setenv("MAX_BUY_SOL", "1.5")
	t.Setenv("SLIPPAGE_BPS", "250")
	t.Setenv("POSTGRES_DSN", "postgres://u:p@localhost/db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.RPCEndpoint != "https://rpc.example.com" {
		t.Errorf("rpc endpoint = %s", cfg.RPCEndpoint)
	}
	if cfg.MaxBuyLamports != 1_500_000_000 {
		t.Errorf("max buy = %d lamports, want 1500000000", cfg.MaxBuyLamports)
	}
	if cfg.SlippageBps != 250 {
		t.Errorf("slippage = %d", cfg.SlippageBps)
	}
	if cfg.PostgresDSN == "" {
		t.Error("postgres DSN not picked up")
	}
}

func TestLoad_InvalidMaxBuy(t *testing.T) {
	t.Setenv("MAX_BUY_SOL", "not-a-number")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed MAX_BUY_SOL")
	}
}

func TestLoad_NegativeMaxBuy(t *testing.T) {
	t.Setenv("MAX_BUY_SOL", "-0.5")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative MAX_BUY_SOL")
	}
}

func TestLoad_SlippageOutOfRange(t *testing.T) {
	t.Setenv("SLIPPAGE_BPS", "10001")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for slippage above 10000 bps")
	}
}

func TestLoad_AutoBuyRequiresWallet(t *testing.T) {
	t.Setenv("AUTO_BUY", "true")
	t.Setenv("ANTHROPIC_API_KEY", "key")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "WALLET_SECRET_KEY") {
		t.Fatalf("expected wallet requirement error, got %v", err)
	}
}

func TestLoad_AutoBuyRequiresAnalyzerKey(t *testing.T) {
	t.Setenv("AUTO_BUY", "true")
	t.Setenv("WALLET_SECRET_KEY", "secret")
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "ANTHROPIC_API_KEY") {
		t.Fatalf("expected analyzer key requirement error, got %v", err)
	}
}
