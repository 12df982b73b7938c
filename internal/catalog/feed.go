package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"medisupply/mobile/internal/config"
	"medisupply/mobile/internal/domain"

	log "github.com/sirupsen/logrus"
)

// ConnState is the live feed connection state. Only the feed client itself
// transitions it.
type ConnState string

func (s ConnState) String() string {
	return string(s)
}

const (
	StateDisconnected ConnState = "disconnected"
	StateConnecting   ConnState = "connecting"
	StateConnected    ConnState = "connected"
)

// filterMessage is the client-to-server wire format: the current filter,
// sent on connect and whenever the filter changes.
type filterMessage struct {
	Q        *string `json:"q"`
	Category *string `json:"category"`
	Page     int     `json:"page"`
	Size     int     `json:"size"`
}

func newFilterMessage(f domain.Filter) filterMessage {
	msg := filterMessage{Page: f.Page, Size: f.Size}
	if f.Query != "" {
		q := f.Query
		msg.Q = &q
	}
	if f.Category != "" {
		c := f.Category.String()
		msg.Category = &c
	}
	return msg
}

// Feed is the live feed surface the coordinator depends on. Callbacks must be
// registered before Connect.
type Feed interface {
	OnPage(fn func(*domain.CatalogPage))
	OnStateChange(fn func(ConnState))
	OnError(fn func(error))
	Connect()
	Send(filter domain.Filter)
	Refresh(filter domain.Filter)
	State() ConnState
	Close()
}

// FeedClient maintains one duplex connection to the catalog feed endpoint,
// reconnecting with exponential backoff after failures. All connection and
// timer handles live on the instance; Close cancels everything, so a client
// never outlives its owner.
type FeedClient struct {
	url    string
	config config.FeedConfig
	dialer Dialer

	onPage  func(*domain.CatalogPage)
	onState func(ConnState)
	onError func(error)

	mu        sync.Mutex
	state     ConnState
	conn      Conn
	filter    domain.Filter
	attempts  int
	reconnect *time.Timer
	gen       int
	closed    bool
}

var _ Feed = (*FeedClient)(nil)

// NewFeedClient builds a feed client for the given endpoint. dialer may be
// nil, in which case the websocket dialer is used.
func NewFeedClient(url string, cfg config.FeedConfig, dialer Dialer) *FeedClient {
	if dialer == nil {
		dialer = NewWebSocketDialer()
	}
	return &FeedClient{
		url:    url,
		config: cfg,
		dialer: dialer,
		state:  StateDisconnected,
	}
}

// OnPage registers the page callback. Pages are delivered one at a time in
// receipt order. Must be set before Connect.
func (c *FeedClient) OnPage(fn func(*domain.CatalogPage)) {
	c.onPage = fn
}

// OnStateChange registers the connection state callback. Must be set before
// Connect.
func (c *FeedClient) OnStateChange(fn func(ConnState)) {
	c.onState = fn
}

// OnError registers the callback invoked when the reconnect budget is
// exhausted. Must be set before Connect.
func (c *FeedClient) OnError(fn func(error)) {
	c.onError = fn
}

// State returns the current connection state.
func (c *FeedClient) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect starts a connection attempt unless one is already underway.
func (c *FeedClient) Connect() {
	c.mu.Lock()
	if c.closed || c.state != StateDisconnected {
		c.mu.Unlock()
		return
	}
	gen := c.beginConnectLocked()
	c.mu.Unlock()

	c.notifyState(StateConnecting)
	go c.dial(gen)
}

// beginConnectLocked transitions to Connecting and bumps the connection
// generation so events from superseded connections are ignored.
func (c *FeedClient) beginConnectLocked() int {
	c.state = StateConnecting
	c.gen++
	return c.gen
}

func (c *FeedClient) dial(gen int) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, err := c.dialer.DialContext(ctx, c.url)
	if err != nil {
		c.handleFailure(gen, err)
		return
	}

	c.mu.Lock()
	if c.closed || c.gen != gen {
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.conn = conn
	c.state = StateConnected
	c.attempts = 0
	filter := c.filter
	c.mu.Unlock()

	log.Info("✅ Catalog live feed connected")
	c.notifyState(StateConnected)

	if err := conn.WriteJSON(newFilterMessage(filter)); err != nil {
		c.handleFailure(gen, err)
		return
	}

	c.readLoop(gen, conn)
}

// readLoop delivers pushed pages until the connection dies. Malformed
// messages are dropped without tearing the connection down; anything else is
// a connection failure.
func (c *FeedClient) readLoop(gen int, conn Conn) {
	for {
		var page domain.CatalogPage
		if err := conn.ReadJSON(&page); err != nil {
			if isMalformed(err) {
				log.Warnf("Dropping malformed feed message: %v", &domain.ProtocolError{Err: err})
				continue
			}
			c.handleFailure(gen, err)
			return
		}

		c.mu.Lock()
		stale := c.closed || c.gen != gen
		c.mu.Unlock()
		if stale {
			return
		}

		if c.onPage != nil {
			c.onPage(&page)
		}
	}
}

// isMalformed distinguishes a message the server sent but we could not parse
// from a broken connection.
func isMalformed(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

// Send records the filter and, when connected, pushes it over the open
// connection. This is the refresh path while connected: the server answers
// with a fresh page for the new filter.
func (c *FeedClient) Send(filter domain.Filter) {
	c.mu.Lock()
	c.filter = filter
	conn := c.conn
	gen := c.gen
	connected := c.state == StateConnected
	c.mu.Unlock()

	if !connected || conn == nil {
		return
	}
	if err := conn.WriteJSON(newFilterMessage(filter)); err != nil {
		c.handleFailure(gen, err)
	}
}

// Refresh resets the reconnect budget and retries immediately: connected
// clients re-send the filter, everything else dials right away. This is the
// manual escape hatch once automatic attempts are exhausted.
func (c *FeedClient) Refresh(filter domain.Filter) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.filter = filter
	c.attempts = 0
	c.stopReconnectLocked()

	if c.state == StateConnected {
		conn := c.conn
		gen := c.gen
		c.mu.Unlock()
		if err := conn.WriteJSON(newFilterMessage(filter)); err != nil {
			c.handleFailure(gen, err)
		}
		return
	}

	if c.state == StateConnecting {
		c.mu.Unlock()
		return
	}

	gen := c.beginConnectLocked()
	c.mu.Unlock()

	c.notifyState(StateConnecting)
	go c.dial(gen)
}

// Close tears the client down. Idempotent; cancels any pending reconnect
// timer and closes the connection cleanly.
func (c *FeedClient) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.gen++
	c.stopReconnectLocked()
	conn := c.conn
	c.conn = nil
	c.state = StateDisconnected
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

func (c *FeedClient) stopReconnectLocked() {
	if c.reconnect != nil {
		c.reconnect.Stop()
		c.reconnect = nil
	}
}

// handleFailure moves the client to Disconnected and schedules the next
// reconnect attempt, or gives up once the budget is spent. A failure on the
// very first attempt is expected while the network warms up and is not
// logged as an error.
func (c *FeedClient) handleFailure(gen int, err error) {
	c.mu.Lock()
	if c.closed || c.gen != gen {
		c.mu.Unlock()
		return
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.state = StateDisconnected
	attempt := c.attempts

	if attempt == 0 {
		log.Debugf("Feed connection closed on first attempt: %v", err)
	} else {
		log.Errorf("❌ Feed connection lost (attempt %d): %v", attempt, err)
	}

	if attempt >= c.config.MaxAttempts {
		c.mu.Unlock()
		c.notifyState(StateDisconnected)
		if c.onError != nil {
			c.onError(&domain.ConnectionError{Attempts: attempt, Err: err})
		}
		return
	}

	delay := nextDelay(attempt,
		time.Duration(c.config.BaseDelayMs)*time.Millisecond,
		time.Duration(c.config.MaxDelayMs)*time.Millisecond)
	c.attempts++
	c.reconnect = time.AfterFunc(delay, c.retry)
	c.mu.Unlock()

	log.Infof("🔄 Reconnecting catalog feed in %v", delay)
	c.notifyState(StateDisconnected)
}

func (c *FeedClient) retry() {
	c.mu.Lock()
	if c.closed || c.state != StateDisconnected {
		c.mu.Unlock()
		return
	}
	gen := c.beginConnectLocked()
	c.mu.Unlock()

	c.notifyState(StateConnecting)
	go c.dial(gen)
}

func (c *FeedClient) notifyState(state ConnState) {
	if c.onState != nil {
		c.onState(state)
	}
}

// nextDelay is the backoff schedule: base doubled per attempt, capped at max.
func nextDelay(attempt int, base, max time.Duration) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	delay := base << uint(attempt)
	if delay <= 0 || delay > max {
		return max
	}
	return delay
}
