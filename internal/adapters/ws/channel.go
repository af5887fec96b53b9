package ws

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/core"
)

const (
	writeWait  = 5 * time.Second
	sendQueue  = 32
	eventQueue = 32
)

var (
	ErrChannelClosed = errors.New("channel closed")
	ErrNotConnected  = errors.New("not connected")
	ErrBackpressure  = errors.New("backpressure")
)

// Channel is the gorilla/websocket implementation of core.SignalChannel.
// One Channel survives any number of dial/drop cycles; the events
// channel is created once and persists across reconnects.
type Channel struct {
	url    string
	dialer *websocket.Dialer
	events chan core.ChannelEvent

	mu     sync.Mutex
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	closed bool
}

func NewChannel(url string) *Channel {
	return &Channel{
		url:    url,
		dialer: websocket.DefaultDialer,
		events: make(chan core.ChannelEvent, eventQueue),
	}
}

func (c *Channel) Events() <-chan core.ChannelEvent { return c.events }

// Connect dials the server and starts the read/write pumps. Calling it
// while a connection is live is a no-op.
func (c *Channel) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrChannelClosed
	}
	if c.conn != nil {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.url, err)
	}

	send := make(chan []byte, sendQueue)
	done := make(chan struct{})

	c.mu.Lock()
	if c.closed || c.conn != nil {
		c.mu.Unlock()
		_ = conn.Close()
		return ErrChannelClosed
	}
	c.conn = conn
	c.send = send
	c.done = done
	c.mu.Unlock()

	log.Info().Str("module", "ws").Str("url", c.url).Msg("channel connected")
	c.emit(core.ChannelEvent{Kind: core.ChannelOpen})

	go c.writePump(conn, send, done)
	go c.readPump(conn)
	return nil
}

func (c *Channel) SendText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrNotConnected
	}
	select {
	case c.send <- []byte(text):
		return nil
	default:
		return ErrBackpressure
	}
}

// Close tears the channel down for good; no reconnect is possible after.
func (c *Channel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	conn, done := c.conn, c.done
	c.conn, c.send, c.done = nil, nil, nil
	c.mu.Unlock()

	if done != nil {
		close(done)
	}
	if conn != nil {
		_ = conn.Close()
	}
}

func (c *Channel) writePump(conn *websocket.Conn, send chan []byte, done chan struct{}) {
	for {
		select {
		case <-done:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case data := <-send:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump set deadline")
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump write error")
				return
			}
		}
	}
}

func (c *Channel) readPump(conn *websocket.Conn) {
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			c.dropConn(conn, err)
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		c.emit(core.ChannelEvent{Kind: core.ChannelText, Text: string(data)})
	}
}

// dropConn detaches one dead connection. Only the goroutine that swaps
// c.conn out emits the ChannelClosed event, so it fires once per dial.
func (c *Channel) dropConn(conn *websocket.Conn, err error) {
	c.mu.Lock()
	owned := c.conn == conn
	if owned {
		c.conn, c.send = nil, nil
		if c.done != nil {
			close(c.done)
			c.done = nil
		}
	}
	terminal := c.closed
	c.mu.Unlock()

	_ = conn.Close()
	if !owned || terminal {
		return
	}
	log.Warn().Err(err).Str("module", "ws").Msg("channel disconnected")
	c.emit(core.ChannelEvent{Kind: core.ChannelClosed, Err: err})
}

func (c *Channel) emit(ev core.ChannelEvent) {
	select {
	case c.events <- ev:
	default:
		log.Warn().Str("module", "ws").Msg("event queue full, dropping")
	}
}

var _ core.SignalChannel = (*Channel)(nil)
