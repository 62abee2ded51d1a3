// Package trader executes buy and sell trades against the bonding-curve
// program: it owns the signing key, assembles slippage-bounded
// instructions, and submits through an RPC collaborator. Failures surface
// as classified TradeResults, never as panics or unwrapped faults.
package trader

import (
	"context"
	"fmt"
	"log"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/shopspring/decimal"

	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/curve"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/domain"
	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/pump"
)

// LamportsPerSOL is the base-unit scale of SOL.
const LamportsPerSOL = 1_000_000_000

// SOLToLamports converts a display-unit SOL amount to lamports, flooring.
func SOLToLamports(sol decimal.Decimal) uint64 {
	return sol.Mul(decimal.NewFromInt(LamportsPerSOL)).BigInt().Uint64()
}

// LamportsToSOL converts lamports to display-unit SOL.
func LamportsToSOL(lamports uint64) decimal.Decimal {
	return decimal.NewFromUint64(lamports).Div(decimal.NewFromInt(LamportsPerSOL))
}

// Config bounds the orchestrator's behavior.
type Config struct {
	// MaxBuyLamports caps a single buy. Zero means no cap.
	MaxBuyLamports uint64
	// SlippageBps is the tolerated deviation between estimated and actual
	// output, in basis points.
	SlippageBps uint64
}

// Trader orchestrates trade execution for one wallet. Callers are
// responsible for serializing concurrent Buy/Sell calls on the same
// instance; sequencing is delegated to the checkpoint fetched before each
// submission.
type Trader struct {
	rpc    RPC
	wallet *Wallet
	cfg    Config
	logger *log.Logger
}

// New creates a Trader. The wallet must already be loaded.
func New(rpcClient RPC, wallet *Wallet, cfg Config, logger *log.Logger) *Trader {
	return &Trader{
		rpc:    rpcClient,
		wallet: wallet,
		cfg:    cfg,
		logger: logger,
	}
}

// Balance returns the wallet's lamport balance.
func (t *Trader) Balance(ctx context.Context) (uint64, error) {
	balance, err := t.rpc.GetBalance(ctx, t.wallet.PublicKey())
	if err != nil {
		return 0, fmt.Errorf("wallet balance: %w", err)
	}
	return balance, nil
}

// Buy spends solAmount lamports on the token's curve. It resolves the
// receiving token account (scheduling its creation when absent), bounds
// the output by the configured slippage, and submits exactly one
// transaction. Precondition failures return a failed result with zero
// network calls.
func (t *Trader) Buy(ctx context.Context, token *domain.TokenSnapshot, solAmount uint64) *domain.TradeResult {
	if solAmount == 0 {
		return failure(domain.FailureValidation, "buy amount must be positive")
	}
	if token.Complete {
		return failure(domain.FailureCurveComplete, fmt.Sprintf("token %s has graduated off the curve", token.Mint))
	}
	if t.cfg.MaxBuyLamports > 0 && solAmount > t.cfg.MaxBuyLamports {
		return failure(domain.FailureLimitExceeded,
			fmt.Sprintf("buy of %s SOL exceeds configured max %s SOL",
				LamportsToSOL(solAmount), LamportsToSOL(t.cfg.MaxBuyLamports)))
	}

	mint, err := solana.PublicKeyFromBase58(token.Mint)
	if err != nil {
		return failure(domain.FailureValidation, fmt.Sprintf("bad mint address %q: %v", token.Mint, err))
	}

	owner := t.wallet.PublicKey()
	accounts := pump.SwapAccountsFor(mint, owner)

	expected := curve.ExpectedOut(domain.DirectionBuy, solAmount, curve.ReservesOf(token))
	minTokens := curve.MinAcceptable(expected, t.cfg.SlippageBps)

	var instructions []solana.Instruction

	ata, err := t.rpc.GetAccountInfo(ctx, accounts.UserTokenAccount)
	if err != nil {
		return failure(domain.FailureNetwork, fmt.Sprintf("resolve token account: %v", err))
	}
	if ata == nil {
		createInst := associatedtokenaccount.NewCreateInstruction(owner, owner, mint).Build()
		instructions = append(instructions, createInst)
	}

	instructions = append(instructions, pump.NewBuyInstruction(accounts, minTokens, solAmount))

	sig, err := t.submit(ctx, instructions)
	if err != nil {
		return failure(domain.FailureNetwork, err.Error())
	}

	t.logger.Printf("buy %s: spent %s SOL for ~%d base units, sig %s",
		token.Mint, LamportsToSOL(solAmount), expected, sig)

	return &domain.TradeResult{
		Success:   true,
		Signature: sig.String(),
		AmountOut: expected,
	}
}

// Sell swaps tokenAmount token base units back to SOL. The receiving
// account must already hold the tokens, so no creation step is scheduled.
func (t *Trader) Sell(ctx context.Context, token *domain.TokenSnapshot, tokenAmount uint64) *domain.TradeResult {
	if tokenAmount == 0 {
		return failure(domain.FailureValidation, "sell amount must be positive")
	}
	if token.Complete {
		return failure(domain.FailureCurveComplete, fmt.Sprintf("token %s has graduated off the curve", token.Mint))
	}

	mint, err := solana.PublicKeyFromBase58(token.Mint)
	if err != nil {
		return failure(domain.FailureValidation, fmt.Sprintf("bad mint address %q: %v", token.Mint, err))
	}

	accounts := pump.SwapAccountsFor(mint, t.wallet.PublicKey())

	expected := curve.ExpectedOut(domain.DirectionSell, tokenAmount, curve.ReservesOf(token))
	minSol := curve.MinAcceptable(expected, t.cfg.SlippageBps)

	instructions := []solana.Instruction{
		pump.NewSellInstruction(accounts, tokenAmount, minSol),
	}

	sig, err := t.submit(ctx, instructions)
	if err != nil {
		return failure(domain.FailureNetwork, err.Error())
	}

	t.logger.Printf("sell %s: %d base units for ~%s SOL, sig %s",
		token.Mint, tokenAmount, LamportsToSOL(expected), sig)

	return &domain.TradeResult{
		Success:   true,
		Signature: sig.String(),
		AmountOut: expected,
	}
}

// Execute dispatches an intent to Buy or Sell by direction.
func (t *Trader) Execute(ctx context.Context, intent *domain.TradeIntent) *domain.TradeResult {
	switch intent.Direction {
	case domain.DirectionBuy:
		return t.Buy(ctx, intent.Token, intent.Amount)
	case domain.DirectionSell:
		return t.Sell(ctx, intent.Token, intent.Amount)
	default:
		return failure(domain.FailureValidation, fmt.Sprintf("unknown trade direction %q", intent.Direction))
	}
}

// submit anchors the instructions to a fresh checkpoint, signs and sends.
// The checkpoint has a short validity window, so it is fetched here,
// immediately before submission.
func (t *Trader) submit(ctx context.Context, instructions []solana.Instruction) (solana.Signature, error) {
	checkpoint, err := t.rpc.GetLatestCheckpoint(ctx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("fetch checkpoint: %w", err)
	}

	tx, err := solana.NewTransaction(instructions, checkpoint.Blockhash,
		solana.TransactionPayer(t.wallet.PublicKey()))
	if err != nil {
		return solana.Signature{}, fmt.Errorf("build transaction: %w", err)
	}

	if err := t.wallet.Sign(tx); err != nil {
		return solana.Signature{}, err
	}

	sig, err := t.rpc.SubmitAndConfirm(ctx, tx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("submit: %w", err)
	}
	return sig, nil
}

func failure(class domain.FailureClass, msg string) *domain.TradeResult {
	return &domain.TradeResult{
		Success: false,
		Failure: class,
		Err:     msg,
	}
}
