package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/agent"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/analysis"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/config"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/observability"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/pumpapi"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/storage"
	chstore "github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/storage/clickhouse"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/storage/memory"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/storage/migrations"
	pgstore "github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/storage/postgres"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/stream"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/trader"
)

func main() {
	wsEndpoint := flag.String("ws-endpoint", "", "Event feed WebSocket endpoint (overrides STREAM_ENDPOINT)")
	rpcEndpoint := flag.String("rpc-endpoint", "", "Solana RPC HTTP endpoint (overrides RPC_ENDPOINT)")
	scoreThreshold := flag.Int("score-threshold", agent.DefaultScoreThreshold, "Minimum assessment score for auto-buy")
	autoBuy := flag.Bool("auto-buy", false, "Execute buys on analyzer approval (overrides AUTO_BUY)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage regardless of configured DSNs")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (overrides METRICS_ADDR, empty keeps env)")

	flag.Parse()

	logger := log.New(os.Stdout, "[agent] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Config: %v", err)
	}
	if *wsEndpoint != "" {
		cfg.StreamEndpoint = *wsEndpoint
	}
	if *rpcEndpoint != "" {
		cfg.RPCEndpoint = *rpcEndpoint
	}
	if *autoBuy {
		cfg.AutoBuy = true
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
		}
	}()

	err = run(ctx, logger, cfg, *scoreThreshold, *useMemory)

	done <- err
	cancel()

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("Error: %v", err)
	}

	logger.Println("Shutdown complete")
}

func run(ctx context.Context, logger *log.Logger, cfg *config.Config, scoreThreshold int, useMemory bool) error {
	tokens, tradeLog, tape, closeStores, err := buildStores(ctx, logger, cfg, useMemory)
	if err != nil {
		return err
	}
	defer closeStores()

	var analyzer analysis.Analyzer
	if cfg.AnalyzerAPIKey != "" {
		opts := []analysis.ModelOption{}
		if cfg.AnalyzerModel != "" {
			opts = append(opts, analysis.WithModel(cfg.AnalyzerModel))
		}
		analyzer = analysis.NewModelClient(cfg.AnalyzerAPIKey, opts...)
	} else {
		logger.Println("No analyzer key configured; monitoring without assessments")
	}

	var buyer agent.Buyer
	if cfg.AutoBuy {
		if cfg.WalletSecret == "" {
			return errors.New("auto-buy requires WALLET_SECRET_KEY")
		}
		if analyzer == nil {
			return errors.New("auto-buy requires ANTHROPIC_API_KEY")
		}
		wallet, err := trader.LoadWallet(cfg.WalletSecret)
		if err != nil {
			return err
		}
		rpcClient := trader.NewClient(cfg.RPCEndpoint)
		buyer = trader.New(rpcClient, wallet, trader.Config{
			MaxBuyLamports: cfg.MaxBuyLamports,
			SlippageBps:    cfg.SlippageBps,
		}, logger)
		logger.Printf("Auto-buy enabled: wallet=%s max=%s SOL",
			wallet.PublicKey(), trader.LamportsToSOL(cfg.MaxBuyLamports))
	}

	streamCfg := stream.DefaultConfig()
	streamCfg.StateListener = func(s stream.State) {
		observability.SetStreamState(int(s))
		if s == stream.StateReconnecting {
			observability.RecordReconnect()
		}
	}
	streamCfg.FrameDropListener = observability.RecordFrameDropped
	feed := stream.NewClient(cfg.StreamEndpoint, &streamCfg, logger)

	monitorCfg := agent.DefaultConfig()
	monitorCfg.ScoreThreshold = scoreThreshold
	monitorCfg.AutoBuy = cfg.AutoBuy
	monitorCfg.BuyLamports = cfg.MaxBuyLamports
	monitorCfg.SlippageBps = cfg.SlippageBps

	monitor := agent.NewMonitor(feed, tokens, tape, tradeLog,
		analyzer, pumpapi.NewClient(), buyer, monitorCfg, logger)

	logger.Printf("Monitoring %s", cfg.StreamEndpoint)
	return monitor.Run(ctx)
}

// buildStores selects memory or durable stores based on configured DSNs.
func buildStores(ctx context.Context, logger *log.Logger, cfg *config.Config, useMemory bool) (
	storage.TokenEventStore, storage.TradeLogStore, storage.TradeTapeStore, func(), error,
) {
	tokens := storage.TokenEventStore(memory.NewTokenEventStore())
	tradeLog := storage.TradeLogStore(memory.NewTradeLogStore())
	tape := storage.TradeTapeStore(memory.NewTradeTapeStore())
	closers := []func(){}

	if !useMemory && cfg.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, nil, err
		}
		tokens = pgstore.NewTokenEventStore(pool)
		tradeLog = pgstore.NewTradeLogStore(pool)
		closers = append(closers, pool.Close)
		logger.Println("Using PostgreSQL for token events and trade log")
	}

	if !useMemory && cfg.ClickHouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickHouseDSN)
		if err != nil {
			for _, c := range closers {
				c()
			}
			return nil, nil, nil, nil, err
		}
		tape = chstore.NewTradeTapeStore(conn)
		closers = append(closers, func() { conn.Close() })
		logger.Println("Using ClickHouse for the trade tape")
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	return tokens, tradeLog, tape, closeAll, nil
}
