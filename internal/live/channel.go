package live

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"time"

	"storefront-client/internal/httpapi"
	"storefront-client/internal/logger"
	"storefront-client/internal/order"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Reconnection policy: bounded attempts with a fixed delay. After the
// attempts are exhausted the channel stays down and stores keep their
// last-known state.
const (
	defaultMaxAttempts = 5
	defaultRetryDelay  = time.Second
)

var ErrChannelClosed = errors.New("live channel is closed")

// Handler receives decoded push events. The order store implements it.
type Handler interface {
	ApplyOrderStatus(orderID string, newStatus order.Status) bool
	ApplyPaymentStatus(orderID, paymentID string, newStatus order.PaymentStatus) bool
}

// Channel is the persistent connection that delivers unsolicited order
// and payment events for the authenticated identity.
type Channel struct {
	primary  string
	fallback string
	tokens   httpapi.TokenSource
	handler  Handler
	dialer   *websocket.Dialer

	maxAttempts int
	retryDelay  time.Duration

	mu        sync.Mutex
	refresh   func(orderID string)
	conn      *websocket.Conn
	connected bool
	closed    bool
	done      chan struct{}
}

func NewChannel(primaryURL, fallbackURL string, tokens httpapi.TokenSource, handler Handler) *Channel {
	return &Channel{
		primary:     primaryURL,
		fallback:    fallbackURL,
		tokens:      tokens,
		handler:     handler,
		dialer:      websocket.DefaultDialer,
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
		done:        make(chan struct{}),
	}
}

// OnApplied registers the follow-up refetch hook, invoked after an event
// was applied so the caller can pick up fields the patch did not carry.
// Safe to call while the read loop is running.
func (c *Channel) OnApplied(fn func(orderID string)) {
	c.mu.Lock()
	c.refresh = fn
	c.mu.Unlock()
}

func (c *Channel) refreshHook() func(orderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refresh
}

// Connect establishes the connection and starts the read loop.
func (c *Channel) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrChannelClosed
	}
	c.mu.Unlock()

	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}

	c.setConn(conn)
	go c.run()
	return nil
}

// dial authenticates with the stored credential via a handshake query
// parameter, falling back to the secondary endpoint if the primary
// cannot be reached.
func (c *Channel) dial(ctx context.Context) (*websocket.Conn, error) {
	log := logger.FromCtx(ctx)

	endpoints := []string{c.primary}
	if c.fallback != "" {
		endpoints = append(endpoints, c.fallback)
	}

	var lastErr error
	for _, endpoint := range endpoints {
		target := endpoint
		if c.tokens != nil {
			if token := c.tokens.Token(); token != "" {
				target = endpoint + "?token=" + url.QueryEscape(token)
			}
		}

		conn, _, err := c.dialer.DialContext(ctx, target, nil)
		if err == nil {
			log.Info("live channel connected", zap.String("endpoint", endpoint))
			return conn, nil
		}
		lastErr = err
		log.Warn("live channel dial failed",
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
	}
	return nil, lastErr
}

func (c *Channel) run() {
	for {
		err := c.readLoop()

		c.mu.Lock()
		c.connected = false
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return
		}

		logger.L().Warn("live channel connection lost", zap.Error(err))
		if !c.reconnect() {
			logger.L().Error("live channel down, reconnection attempts exhausted")
			return
		}
	}
}

func (c *Channel) readLoop() error {
	conn := c.currentConn()
	if conn == nil {
		return ErrChannelClosed
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			logger.L().Warn("dropping malformed live frame", zap.Error(err))
			continue
		}
		c.dispatch(ev)
	}
}

func (c *Channel) dispatch(ev Event) {
	log := logger.L().With(zap.String("event", ev.Name))

	switch ev.Name {
	case EventOrderStatusChanged:
		var data orderStatusData
		if err := json.Unmarshal(ev.Data, &data); err != nil || data.OrderID == "" {
			log.Warn("dropping malformed event payload", zap.Error(err))
			return
		}
		if c.handler.ApplyOrderStatus(data.OrderID, data.Status) {
			if refresh := c.refreshHook(); refresh != nil {
				go refresh(data.OrderID)
			}
		}

	case EventPaymentStatusChanged:
		var data paymentStatusData
		if err := json.Unmarshal(ev.Data, &data); err != nil || data.OrderID == "" {
			log.Warn("dropping malformed event payload", zap.Error(err))
			return
		}
		if c.handler.ApplyPaymentStatus(data.OrderID, data.PaymentID, data.Status) {
			if refresh := c.refreshHook(); refresh != nil {
				go refresh(data.OrderID)
			}
		}

	default:
		log.Debug("ignoring unknown live event")
	}
}

// reconnect retries the connection with a fixed delay between attempts.
// Returns whether a connection was re-established.
func (c *Channel) reconnect() bool {
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		select {
		case <-c.done:
			return false
		case <-time.After(c.retryDelay):
		}

		logger.L().Info("live channel reconnection attempt", zap.Int("attempt", attempt))
		conn, err := c.dial(context.Background())
		if err == nil {
			c.setConn(conn)
			return true
		}
	}
	return false
}

// Close tears the channel down: stops the read loop and any pending
// reconnection timer.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.connected = false
	close(c.done)
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Channel) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.conn = conn
	c.connected = true
	c.mu.Unlock()
}

func (c *Channel) currentConn() *websocket.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}
