// Package realtime carries order lifecycle events between the gateway and
// the customer, kitchen and admin surfaces. Push is a freshness hint, not the
// source of truth: delivery across reconnects is not guaranteed and every
// surface keeps a manual reload path.
package realtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrChannelClosed is returned when an operation hits a closed channel.
var ErrChannelClosed = errors.New("realtime channel is closed")

const (
	defaultMaxAttempts = 8
	defaultBaseDelay   = time.Second
	defaultMaxDelay    = 30 * time.Second
)

// Channel is one duplex connection from a surface to the hub: explicit room
// subscriptions, a multi-subscriber listener registry and reconnection with
// capped exponential backoff. When the retry budget runs out the channel
// stays degraded until the surface reloads.
type Channel struct {
	url      string
	bus      *Bus
	notifier Notifier

	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration

	mu       sync.Mutex
	conn     *websocket.Conn
	rooms    map[string]bool
	degraded bool
	closed   bool

	// writeMu serializes control writes; a Subscribe can race the rejoin
	// loop of a concurrent reconnect on the same connection.
	writeMu sync.Mutex
}

// Option adjusts a Channel before Connect.
type Option func(*Channel)

// WithNotifier sets the side-effect notifier for incoming events.
func WithNotifier(n Notifier) Option {
	return func(c *Channel) { c.notifier = n }
}

// WithRetry bounds the reconnect loop.
func WithRetry(attempts int, base, max time.Duration) Option {
	return func(c *Channel) {
		c.maxAttempts = attempts
		c.baseDelay = base
		c.maxDelay = max
	}
}

func NewChannel(url string, opts ...Option) *Channel {
	c := &Channel{
		url:         url,
		bus:         NewBus(),
		notifier:    NopNotifier{},
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		maxDelay:    defaultMaxDelay,
		rooms:       make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect dials the hub and starts the read loop.
func (c *Channel) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrChannelClosed
	}
	c.mu.Unlock()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.degraded = false
	rooms := c.roomList()
	c.mu.Unlock()

	for _, room := range rooms {
		if err := c.writeControl(conn, controlMessage{Action: "join", Room: room}); err != nil {
			break
		}
	}

	go c.readLoop(conn)
	return nil
}

func (c *Channel) writeControl(conn *websocket.Conn, msg controlMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteJSON(msg)
}

// Subscribe joins a room. The subscription survives reconnects.
func (c *Channel) Subscribe(room string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrChannelClosed
	}
	c.rooms[room] = true
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	return c.writeControl(conn, controlMessage{Action: "join", Room: room})
}

// Unsubscribe leaves a room.
func (c *Channel) Unsubscribe(room string) error {
	c.mu.Lock()
	delete(c.rooms, room)
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	return c.writeControl(conn, controlMessage{Action: "leave", Room: room})
}

// On registers a callback for an event name and returns its unsubscribe
// function.
func (c *Channel) On(name string, fn func(Event)) func() {
	return c.bus.Subscribe(name, fn)
}

// Degraded reports whether the connection is currently down.
func (c *Channel) Degraded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.degraded
}

// Close shuts the channel down for good.
func (c *Channel) Close() error {
	c.mu.Lock()
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (c *Channel) readLoop(conn *websocket.Conn) {
	for {
		var event Event
		if err := conn.ReadJSON(&event); err != nil {
			c.mu.Lock()
			closed := c.closed
			c.degraded = true
			c.mu.Unlock()
			if !closed {
				slog.Warn("realtime connection lost", "error", err)
				c.reconnect()
			}
			return
		}
		c.dispatch(event)
	}
}

func (c *Channel) dispatch(event Event) {
	c.bus.Publish(event)

	// Cues are best-effort and must never block state updates.
	notifier := c.notifier
	switch event.Name {
	case EventNewOrder, EventNewItemsAdded:
		go notifier.NewOrderCue()
	case EventOrderCompleted:
		go notifier.CompletionCue()
	}
}

// reconnect retries with capped exponential backoff. Events emitted while
// disconnected are gone; callers reconcile with a full reload.
func (c *Channel) reconnect() {
	delay := c.baseDelay
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		time.Sleep(delay)
		delay *= 2
		if delay > c.maxDelay {
			delay = c.maxDelay
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := c.Connect(ctx)
		cancel()
		if err == nil {
			slog.Info("realtime connection restored", "attempts", attempt)
			return
		}
		slog.Warn("reconnect attempt failed", "attempt", attempt, "error", err)
	}
	slog.Error("realtime channel gave up reconnecting; manual reload required",
		"attempts", c.maxAttempts)
}

func (c *Channel) roomList() []string {
	rooms := make([]string, 0, len(c.rooms))
	for room := range c.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}
