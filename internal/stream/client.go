// Package stream maintains one duplex socket session to the venue's event
// feed and turns it into an ordered, reconnect-safe event dispatch: token
// creations and curve trades flow to registered handlers, transient
// disconnects are retried with exponential backoff up to a fixed attempt
// cap, and malformed frames are dropped without killing the connection.
package stream

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"

	"github.com/hakumatsu524-jpg/Claude-Controlled-Coin/internal/domain"
)

// State is the connection lifecycle state.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateAbandoned
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateAbandoned:
		return "abandoned"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Config configures client behavior.
type Config struct {
	// BaseReconnectDelay seeds the exponential backoff.
	BaseReconnectDelay time.Duration
	// MaxReconnectDelay caps the backoff.
	MaxReconnectDelay time.Duration
	// MaxReconnectAttempts is the number of consecutive failed attempts
	// after which the client abandons reconnecting.
	MaxReconnectAttempts int
	// HandshakeTimeout bounds each dial.
	HandshakeTimeout time.Duration
	// WriteTimeout bounds control frame writes.
	WriteTimeout time.Duration
	// StateListener, when set, observes every state transition.
	StateListener func(State)
	// FrameDropListener, when set, observes every dropped malformed frame.
	FrameDropListener func()
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() Config {
	return Config{
		BaseReconnectDelay:   1 * time.Second,
		MaxReconnectDelay:    30 * time.Second,
		MaxReconnectAttempts: 5,
		HandshakeTimeout:     10 * time.Second,
		WriteTimeout:         10 * time.Second,
	}
}

// NewTokenHandler consumes token creation events.
type NewTokenHandler func(*domain.NewTokenEvent)

// TradeHandler consumes curve trade events.
type TradeHandler func(*domain.TradeEvent)

// Client manages one logical feed session. At most one handler per event
// category is retained; a later registration replaces the earlier one.
type Client struct {
	endpoint string
	cfg      Config
	logger   *log.Logger

	mu              sync.Mutex
	conn            *websocket.Conn
	state           State
	attempts        int
	reconnectTimer  *time.Timer
	wantNewTokens   bool
	tradeSubs       map[string]struct{}
	newTokenHandler NewTokenHandler
	tradeHandler    TradeHandler
}

// NewClient creates a client for the given feed endpoint. The config may
// be nil for defaults.
func NewClient(endpoint string, config *Config, logger *log.Logger) *Client {
	cfg := DefaultConfig()
	if config != nil {
		cfg = *config
	}
	return &Client{
		endpoint:  endpoint,
		cfg:       cfg,
		logger:    logger,
		state:     StateDisconnected,
		tradeSubs: make(map[string]struct{}),
	}
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect opens the feed socket. It returns once the connection is
// established, or with an error based on the first failure; it does not
// retry. A client in Abandoned state may be reconnected with Connect.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateConnected || c.state == StateConnecting {
		c.mu.Unlock()
		return fmt.Errorf("connect: already %s", c.state)
	}
	c.setStateLocked(StateConnecting)
	c.mu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateConnecting {
		// Disconnected while dialing.
		if conn != nil {
			conn.Close()
		}
		return fmt.Errorf("connect: canceled")
	}
	if err != nil {
		c.setStateLocked(StateDisconnected)
		return fmt.Errorf("dial feed: %w", err)
	}

	c.establishLocked(conn)
	return nil
}

// establishLocked installs a fresh connection, resets the attempt counter,
// re-issues retained subscriptions and starts the read loop. Callers hold mu.
func (c *Client) establishLocked(conn *websocket.Conn) {
	c.conn = conn
	c.attempts = 0
	c.setStateLocked(StateConnected)

	if c.wantNewTokens {
		c.sendControlLocked(controlMessage{Method: methodSubscribeNewToken})
	}
	if len(c.tradeSubs) > 0 {
		c.sendControlLocked(controlMessage{
			Method: methodSubscribeTokenTrade,
			Keys:   lo.Keys(c.tradeSubs),
		})
	}

	go c.readLoop(conn)
}

// SubscribeNewTokens registers the handler for token creation events and,
// when connected, subscribes on the wire. Last registration wins.
func (c *Client) SubscribeNewTokens(handler NewTokenHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.newTokenHandler = handler
	c.wantNewTokens = true
	if c.state == StateConnected {
		c.sendControlLocked(controlMessage{Method: methodSubscribeNewToken})
	}
}

// SubscribeTrades adds a mint to the trade subscription set and registers
// the trade handler. The handler is per category, not per mint: the most
// recent registration receives events for every subscribed mint.
func (c *Client) SubscribeTrades(mint string, handler TradeHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tradeHandler = handler
	c.tradeSubs[mint] = struct{}{}
	if c.state == StateConnected {
		c.sendControlLocked(controlMessage{Method: methodSubscribeTokenTrade, Keys: []string{mint}})
	}
}

// Unsubscribe removes a mint from the trade subscription set.
func (c *Client) Unsubscribe(mint string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.tradeSubs, mint)
	if c.state == StateConnected {
		c.sendControlLocked(controlMessage{Method: methodUnsubscribeTokenTrade, Keys: []string{mint}})
	}
}

// Disconnect closes the session and cancels any pending reconnect.
// Idempotent.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}

	if c.conn != nil {
		c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.conn.Close()
		c.conn = nil
	}

	if c.state != StateDisconnected {
		c.setStateLocked(StateDisconnected)
	}
}

// readLoop consumes frames from one connection until it dies. A stale
// loop (superseded by reconnect or shutdown) exits without side effects.
func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			if c.conn != conn {
				// Superseded or deliberately closed.
				c.mu.Unlock()
				return
			}
			c.conn = nil
			conn.Close()
			c.scheduleReconnectLocked()
			c.mu.Unlock()
			return
		}
		c.handleMessage(message)
	}
}

// scheduleReconnectLocked arms the backoff timer for the next attempt, or
// abandons the session once the attempt cap is exceeded. Callers hold mu.
func (c *Client) scheduleReconnectLocked() {
	c.attempts++
	if c.attempts > c.cfg.MaxReconnectAttempts {
		c.logger.Printf("feed abandoned after %d failed reconnect attempts", c.cfg.MaxReconnectAttempts)
		c.setStateLocked(StateAbandoned)
		return
	}

	delay := backoffDelay(c.attempts, c.cfg.BaseReconnectDelay, c.cfg.MaxReconnectDelay)
	c.logger.Printf("feed connection lost, reconnect attempt %d/%d in %s",
		c.attempts, c.cfg.MaxReconnectAttempts, delay)
	c.setStateLocked(StateReconnecting)
	c.reconnectTimer = time.AfterFunc(delay, c.tryReconnect)
}

// tryReconnect runs one scheduled reconnect attempt.
func (c *Client) tryReconnect() {
	c.mu.Lock()
	if c.state != StateReconnecting {
		// Disconnect won the race with the timer.
		c.mu.Unlock()
		return
	}
	c.reconnectTimer = nil
	c.setStateLocked(StateConnecting)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.HandshakeTimeout)
	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateConnecting {
		if conn != nil {
			conn.Close()
		}
		return
	}
	if err != nil {
		c.scheduleReconnectLocked()
		return
	}

	c.establishLocked(conn)
}

// backoffDelay returns the delay before reconnect attempt n (1-based):
// min(base * 2^n, max).
func backoffDelay(attempt int, base, max time.Duration) time.Duration {
	delay := base << uint(attempt)
	if delay > max || delay <= 0 {
		return max
	}
	return delay
}

// handleMessage decodes one inbound frame and dispatches it. Malformed
// frames are logged and dropped; they never terminate the connection.
func (c *Client) handleMessage(message []byte) {
	event, err := decodeFrame(message)
	if err != nil {
		c.logger.Printf("dropping malformed feed frame: %v", err)
		if c.cfg.FrameDropListener != nil {
			c.cfg.FrameDropListener()
		}
		return
	}

	c.mu.Lock()
	newTokenHandler := c.newTokenHandler
	tradeHandler := c.tradeHandler
	c.mu.Unlock()

	switch {
	case event.newToken != nil && newTokenHandler != nil:
		newTokenHandler(event.newToken)
	case event.trade != nil && tradeHandler != nil:
		tradeHandler(event.trade)
	}
}

// sendControlLocked writes a control frame on the current connection.
// Write failures are logged; the read loop owns connection teardown.
func (c *Client) sendControlLocked(msg controlMessage) {
	if c.conn == nil {
		return
	}
	c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	if err := c.conn.WriteJSON(msg); err != nil {
		c.logger.Printf("write %s control frame: %v", msg.Method, err)
	}
}

// setStateLocked updates the state and notifies the listener. Callers hold mu.
func (c *Client) setStateLocked(s State) {
	c.state = s
	if c.cfg.StateListener != nil {
		c.cfg.StateListener(s)
	}
}
