package signal

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

// DefaultReconnectDelay is the fixed pause between reconnect attempts.
// No backoff, no retry ceiling: the client keeps trying until Close.
const DefaultReconnectDelay = 2 * time.Second

// Client owns the transport channel and speaks the room protocol over
// it. Decoded messages fan out to every subscriber; the raw transport
// never leaks past this package.
type Client struct {
	ch     core.SignalChannel
	bus    *core.Bus[core.SignalEvent]
	userID domain.ParticipantID
	token  string
	delay  time.Duration

	connected atomic.Bool

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

func NewClient(ch core.SignalChannel, userID domain.ParticipantID, token string, reconnectDelay time.Duration) *Client {
	if reconnectDelay <= 0 {
		reconnectDelay = DefaultReconnectDelay
	}
	return &Client{
		ch:     ch,
		bus:    core.NewBus[core.SignalEvent](),
		userID: userID,
		token:  token,
		delay:  reconnectDelay,
	}
}

func (c *Client) Subscribe() <-chan core.SignalEvent { return c.bus.Subscribe() }

func (c *Client) IsConnected() bool { return c.connected.Load() }

// Connect opens the channel; a dial failure schedules a retry just like
// a drop of an established connection would.
func (c *Client) Connect(ctx context.Context) error {
	err := c.ch.Connect(ctx)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("connect failed")
		c.scheduleReconnect(ctx)
	}
	return err
}

// Run drives the channel event stream until ctx is done. All decoding
// happens here, on one goroutine.
func (c *Client) Run(ctx context.Context) {
	events := c.ch.Events()
	for {
		select {
		case <-ctx.Done():
			c.Close()
			return
		case ev := <-events:
			c.handleChannelEvent(ctx, ev)
		}
	}
}

// Close stops reconnecting and tears the channel down.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	c.ch.Close()
}

func (c *Client) handleChannelEvent(ctx context.Context, ev core.ChannelEvent) {
	switch ev.Kind {
	case core.ChannelOpen:
		c.connected.Store(true)
		c.bus.Publish(core.Connected{})
	case core.ChannelClosed:
		c.connected.Store(false)
		c.bus.Publish(core.Disconnected{})
		c.scheduleReconnect(ctx)
	case core.ChannelText:
		sev, err := decodeSignal([]byte(ev.Text))
		if err != nil {
			// Local decode failure: drop the message, keep the connection.
			log.Error().Err(err).Str("module", "signal").Msg("dropping undecodable message")
			return
		}
		if sev == nil {
			log.Warn().Str("module", "signal").Msg("ignoring unknown message id")
			return
		}
		c.bus.Publish(sev)
	}
}

func (c *Client) scheduleReconnect(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.timer != nil {
		return
	}
	log.Info().Str("module", "signal").Dur("delay", c.delay).Msg("scheduling reconnect")
	c.timer = time.AfterFunc(c.delay, func() {
		c.mu.Lock()
		c.timer = nil
		closed := c.closed
		c.mu.Unlock()
		if closed || ctx.Err() != nil {
			return
		}
		c.Connect(ctx)
	})
}

func (c *Client) JoinRoom(community domain.CommunityID, room domain.RoomID) error {
	return c.sendJSON(joinRoomMsg{
		ID:          msgJoinRoom,
		Token:       c.token,
		UserID:      string(c.userID),
		CommunityID: string(community),
		RoomID:      domain.RoomKey(community, room),
		Video:       true,
		Audio:       true,
	})
}

func (c *Client) LeaveRoom() error {
	return c.sendJSON(leaveRoomMsg{ID: msgLeaveRoom})
}

func (c *Client) SendDescription(to domain.ParticipantID, desc domain.SessionDescription) error {
	return c.sendJSON(descriptionMsg{
		ID:       msgSendDesc,
		UserID:   string(to),
		SDPOffer: desc.SDP,
	})
}

// SendCandidate targets the candidate at its actual destination peer.
func (c *Client) SendCandidate(to domain.ParticipantID, cand domain.IceCandidate) error {
	return c.sendJSON(candidateMsg{
		ID:        msgSendCandidate,
		UserID:    string(to),
		Candidate: toWireCandidate(cand),
	})
}

func (c *Client) sendJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return err
	}
	return c.ch.SendText(string(b))
}

var _ core.Signaler = (*Client)(nil)
