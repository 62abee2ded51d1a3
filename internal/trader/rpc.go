package trader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Checkpoint is the short-lived network reference a transaction anchors to.
// It must be fetched immediately before submission, never cached.
type Checkpoint struct {
	Blockhash            solana.Hash
	LastValidBlockHeight uint64
}

// Account is the on-chain account view the orchestrator needs.
type Account struct {
	Lamports uint64
	Owner    solana.PublicKey
	Data     []byte
}

// RPC is the network collaborator the orchestrator submits through.
// GetAccountInfo returns (nil, nil) when the account does not exist;
// absence is a valid outcome, not an error.
type RPC interface {
	GetBalance(ctx context.Context, addr solana.PublicKey) (uint64, error)
	GetAccountInfo(ctx context.Context, addr solana.PublicKey) (*Account, error)
	GetLatestCheckpoint(ctx context.Context) (Checkpoint, error)
	SubmitAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

// Default confirmation polling behavior.
const (
	DefaultConfirmTimeout = 60 * time.Second
	DefaultPollInterval   = 2 * time.Second
)

// Client implements RPC over a Solana JSON-RPC endpoint.
type Client struct {
	rpc            *rpc.Client
	commitment     rpc.CommitmentType
	confirmTimeout time.Duration
	pollInterval   time.Duration
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithCommitment sets the commitment level for queries and confirmation.
func WithCommitment(c rpc.CommitmentType) ClientOption {
	return func(cl *Client) {
		cl.commitment = c
	}
}

// WithConfirmTimeout bounds how long SubmitAndConfirm waits.
func WithConfirmTimeout(d time.Duration) ClientOption {
	return func(cl *Client) {
		cl.confirmTimeout = d
	}
}

// WithPollInterval sets the confirmation polling interval.
func WithPollInterval(d time.Duration) ClientOption {
	return func(cl *Client) {
		cl.pollInterval = d
	}
}

// NewClient creates an RPC client for the given endpoint.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		rpc:            rpc.New(endpoint),
		commitment:     rpc.CommitmentConfirmed,
		confirmTimeout: DefaultConfirmTimeout,
		pollInterval:   DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetBalance returns the lamport balance of an address.
func (c *Client) GetBalance(ctx context.Context, addr solana.PublicKey) (uint64, error) {
	out, err := c.rpc.GetBalance(ctx, addr, c.commitment)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return out.Value, nil
}

// GetAccountInfo returns account state, or (nil, nil) if absent.
func (c *Client) GetAccountInfo(ctx context.Context, addr solana.PublicKey) (*Account, error) {
	out, err := c.rpc.GetAccountInfoWithOpts(ctx, addr, &rpc.GetAccountInfoOpts{
		Commitment: c.commitment,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account info: %w", err)
	}
	if out.Value == nil {
		return nil, nil
	}

	return &Account{
		Lamports: out.Value.Lamports,
		Owner:    out.Value.Owner,
		Data:     out.Value.Data.GetBinary(),
	}, nil
}

// GetLatestCheckpoint fetches the current blockhash and its validity bound.
func (c *Client) GetLatestCheckpoint(ctx context.Context) (Checkpoint, error) {
	out, err := c.rpc.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return Checkpoint{}, fmt.Errorf("get latest blockhash: %w", err)
	}
	return Checkpoint{
		Blockhash:            out.Value.Blockhash,
		LastValidBlockHeight: out.Value.LastValidBlockHeight,
	}, nil
}

// SubmitAndConfirm sends a signed transaction and polls until it reaches
// the client's commitment level or the confirmation timeout elapses.
func (c *Client) SubmitAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       true,
		PreflightCommitment: c.commitment,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("send transaction: %w", err)
	}

	deadline := time.Now().Add(c.confirmTimeout)
	for {
		select {
		case <-ctx.Done():
			return sig, ctx.Err()
		case <-time.After(c.pollInterval):
		}

		statuses, err := c.rpc.GetSignatureStatuses(ctx, false, sig)
		if err != nil {
			// Transient status query failure, keep polling until deadline.
			if time.Now().After(deadline) {
				return sig, fmt.Errorf("confirm %s: %w", sig, err)
			}
			continue
		}

		if len(statuses.Value) > 0 && statuses.Value[0] != nil {
			st := statuses.Value[0]
			if st.Err != nil {
				return sig, fmt.Errorf("transaction %s failed on chain: %v", sig, st.Err)
			}
			if confirmed(st.ConfirmationStatus, c.commitment) {
				return sig, nil
			}
		}

		if time.Now().After(deadline) {
			return sig, fmt.Errorf("transaction %s not confirmed within %s", sig, c.confirmTimeout)
		}
	}
}

// confirmed reports whether a status satisfies the wanted commitment.
func confirmed(status rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	switch want {
	case rpc.CommitmentFinalized:
		return status == rpc.ConfirmationStatusFinalized
	default:
		return status == rpc.ConfirmationStatusConfirmed || status == rpc.ConfirmationStatusFinalized
	}
}
