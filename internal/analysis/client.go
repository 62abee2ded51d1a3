package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/domain"
)

// Default configuration values.
const (
	DefaultEndpoint  = "https://api.anthropic.com/v1/messages"
	DefaultModel     = "claude-sonnet-4-20250514"
	DefaultMaxTokens = 256
	DefaultTimeout   = 60 * time.Second
)

// ModelClient implements Analyzer against a messages-style HTTP API.
type ModelClient struct {
	endpoint  string
	apiKey    string
	model     string
	maxTokens int
	client    *http.Client
}

// ModelOption configures ModelClient.
type ModelOption func(*ModelClient)

// WithEndpoint overrides the API endpoint.
func WithEndpoint(u string) ModelOption {
	return func(c *ModelClient) {
		c.endpoint = u
	}
}

// WithModel sets the model identifier.
func WithModel(model string) ModelOption {
	return func(c *ModelClient) {
		c.model = model
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ModelOption {
	return func(c *ModelClient) {
		c.client = client
	}
}

// NewModelClient creates an analyzer backed by a messages API.
func NewModelClient(apiKey string, opts ...ModelOption) *ModelClient {
	c := &ModelClient{
		endpoint:  DefaultEndpoint,
		apiKey:    apiKey,
		model:     DefaultModel,
		maxTokens: DefaultMaxTokens,
		client:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
	Error   *apiError      `json:"error,omitempty"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Analyze sends the rendered snapshot to the model and parses its reply.
func (c *ModelClient) Analyze(ctx context.Context, snap *domain.TokenSnapshot) (*domain.Assessment, error) {
	reqBody := messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []message{
			{Role: "user", Content: BuildPrompt(snap)},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if parsed.Error != nil {
		return nil, fmt.Errorf("model API error %s: %s", parsed.Error.Type, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var reply string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			reply += block.Text
		}
	}
	if reply == "" {
		return nil, fmt.Errorf("empty model reply")
	}

	return ParseAssessment(snap.Mint, reply)
}
