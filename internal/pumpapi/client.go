// Package pumpapi queries the venue's frontend REST API for token metadata
// and bonding curve state. The on-chain curve account remains the
// authoritative source for trading; this client serves discovery and CLI
// display paths.
package pumpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/domain"
)

// Default configuration values.
const (
	DefaultBaseURL    = "https://frontend-api.pump.fun"
	DefaultTimeout    = 15 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = 500 * time.Millisecond
	DefaultMaxDelay   = 5 * time.Second
)

// ErrNotFound indicates the mint is unknown to the API.
var ErrNotFound = errors.New("pumpapi: token not found")

// Client is an HTTP client for the frontend API.
type Client struct {
	baseURL    string
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
	maxDelay   time.Duration
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient creates a frontend API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		client:     &http.Client{Timeout: DefaultTimeout},
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		maxDelay:   DefaultMaxDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// coinResponse is the raw API payload for a single coin.
type coinResponse struct {
	Mint                   string `json:"mint"`
	Name                   string `json:"name"`
	Symbol                 string `json:"symbol"`
	Creator                string `json:"creator"`
	BondingCurve           string `json:"bonding_curve"`
	AssociatedBondingCurve string `json:"associated_bonding_curve"`
	VirtualSolReserves     uint64 `json:"virtual_sol_reserves"`
	VirtualTokenReserves   uint64 `json:"virtual_token_reserves"`
	TotalSupply            uint64 `json:"total_supply"`
	Complete               bool   `json:"complete"`
}

// FetchToken retrieves token metadata and curve state for a mint.
// Returns ErrNotFound when the API does not know the mint.
func (c *Client) FetchToken(ctx context.Context, mint string) (*domain.TokenSnapshot, error) {
	url := fmt.Sprintf("%s/coins/%s", c.baseURL, mint)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var coin coinResponse
	if err := json.Unmarshal(body, &coin); err != nil {
		return nil, fmt.Errorf("unmarshal coin: %w", err)
	}

	return &domain.TokenSnapshot{
		Mint:                   coin.Mint,
		Name:                   coin.Name,
		Symbol:                 coin.Symbol,
		Creator:                coin.Creator,
		BondingCurve:           coin.BondingCurve,
		AssociatedBondingCurve: coin.AssociatedBondingCurve,
		VirtualSolReserves:     coin.VirtualSolReserves,
		VirtualTokenReserves:   coin.VirtualTokenReserves,
		TotalSupply:            coin.TotalSupply,
		Complete:               coin.Complete,
	}, nil
}

// get performs a GET with retries and exponential backoff. 404 is terminal
// and maps to ErrNotFound; 429 and transport errors are retried.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode == http.StatusNotFound:
			return nil, ErrNotFound
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		default:
			lastErr = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
			continue
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}
