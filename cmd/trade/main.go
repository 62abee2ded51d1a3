package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/config"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/domain"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/pump"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/trader"
)

func main() {
	action := flag.String("action", "", "Action: buy, sell, balance (required)")
	mintArg := flag.String("mint", "", "Token mint address (required for buy/sell)")
	amountSOL := flag.String("amount-sol", "", "SOL to spend on a buy, e.g. 0.05")
	amountTokens := flag.String("amount-tokens", "", "Tokens to sell, display units, e.g. 12345.67")
	slippageBps := flag.Uint64("slippage-bps", 0, "Slippage tolerance in bps (overrides SLIPPAGE_BPS)")
	rpcEndpoint := flag.String("rpc-endpoint", "", "Solana RPC HTTP endpoint (overrides RPC_ENDPOINT)")
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	logger := log.New(os.Stderr, "[trade] ", log.LstdFlags)

	*action = strings.ToLower(*action)
	if *action != "buy" && *action != "sell" && *action != "balance" {
		logger.Fatal("--action must be buy, sell, or balance")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Config: %v", err)
	}
	if *rpcEndpoint != "" {
		cfg.RPCEndpoint = *rpcEndpoint
	}
	if *slippageBps != 0 {
		cfg.SlippageBps = *slippageBps
	}
	if cfg.WalletSecret == "" {
		logger.Fatal("WALLET_SECRET_KEY is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	wallet, err := trader.LoadWallet(cfg.WalletSecret)
	if err != nil {
		logger.Fatalf("Load wallet: %v", err)
	}

	rpcClient := trader.NewClient(cfg.RPCEndpoint)
	t := trader.New(rpcClient, wallet, trader.Config{
		MaxBuyLamports: cfg.MaxBuyLamports,
		SlippageBps:    cfg.SlippageBps,
	}, logger)

	if *action == "balance" {
		lamports, err := t.Balance(ctx)
		if err != nil {
			logger.Fatalf("Balance: %v", err)
		}
		if *outputJSON {
			printJSON(map[string]any{
				"wallet":      wallet.PublicKey().String(),
				"lamports":    lamports,
				"balance_sol": trader.LamportsToSOL(lamports).String(),
			})
		} else {
			fmt.Printf("Wallet:  %s\n", wallet.PublicKey())
			fmt.Printf("Balance: %s SOL (%d lamports)\n", trader.LamportsToSOL(lamports), lamports)
		}
		return
	}

	if *mintArg == "" {
		logger.Fatal("--mint is required for buy and sell")
	}
	mint, err := solana.PublicKeyFromBase58(*mintArg)
	if err != nil {
		logger.Fatalf("Invalid mint: %v", err)
	}

	token, err := fetchSnapshot(ctx, rpcClient, mint)
	if err != nil {
		logger.Fatalf("Fetch bonding curve: %v", err)
	}
	if token.Complete {
		logger.Fatal("Bonding curve is complete; token has migrated off the curve")
	}

	intent := &domain.TradeIntent{Token: token}
	switch *action {
	case "buy":
		if *amountSOL == "" {
			logger.Fatal("--amount-sol is required for buy")
		}
		sol, err := decimal.NewFromString(*amountSOL)
		if err != nil || sol.Sign() <= 0 {
			logger.Fatalf("Invalid --amount-sol: %q", *amountSOL)
		}
		intent.Direction = domain.DirectionBuy
		intent.Amount = trader.SOLToLamports(sol)
		logger.Printf("Buying %s SOL of %s (slippage %d bps)", sol, mint, cfg.SlippageBps)
	case "sell":
		if *amountTokens == "" {
			logger.Fatal("--amount-tokens is required for sell")
		}
		tokens, err := decimal.NewFromString(*amountTokens)
		if err != nil || tokens.Sign() <= 0 {
			logger.Fatalf("Invalid --amount-tokens: %q", *amountTokens)
		}
		intent.Direction = domain.DirectionSell
		intent.Amount = tokens.Mul(decimal.NewFromInt(1_000_000)).BigInt().Uint64()
		logger.Printf("Selling %s tokens of %s (slippage %d bps)", tokens, mint, cfg.SlippageBps)
	}

	result := t.Execute(ctx, intent)

	if *outputJSON {
		printJSON(result)
	} else {
		printResult(result)
	}
	if !result.Success {
		os.Exit(1)
	}
}

// fetchSnapshot reads the on-chain bonding curve account for the mint.
func fetchSnapshot(ctx context.Context, client *trader.Client, mint solana.PublicKey) (*domain.TokenSnapshot, error) {
	curveAddr := pump.DeriveBondingCurve(mint)
	account, err := client.GetAccountInfo(ctx, curveAddr)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("no bonding curve account at %s", curveAddr)
	}
	state, err := pump.DecodeBondingCurve(account.Data)
	if err != nil {
		return nil, err
	}
	return pump.Snapshot(mint, state), nil
}

func printJSON(v any) {
	output, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(output))
}

// printResult outputs a human-readable trade result.
func printResult(r *domain.TradeResult) {
	fmt.Println()
	fmt.Println("=== Trade Result ===")
	if r.Success {
		fmt.Println("Status:     SUCCESS")
		fmt.Printf("Signature:  %s\n", r.Signature)
		fmt.Printf("Amount Out: %d base units\n", r.AmountOut)
		return
	}
	fmt.Println("Status:     FAILED")
	fmt.Printf("Class:      %s\n", r.Failure)
	fmt.Printf("Error:      %s\n", r.Err)
}
