package signal

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

type fakeChannel struct {
	mu       sync.Mutex
	connects []time.Time
	sent     []string
	closed   bool
	events   chan core.ChannelEvent
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{events: make(chan core.ChannelEvent, 16)}
}

func (f *fakeChannel) Connect(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects = append(f.connects, time.Now())
	return nil
}

func (f *fakeChannel) SendText(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeChannel) Events() <-chan core.ChannelEvent { return f.events }

func (f *fakeChannel) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeChannel) connectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.connects)
}

func (f *fakeChannel) lastSent(t *testing.T) map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(f.sent[len(f.sent)-1]), &m))
	return m
}

func startClient(t *testing.T, ch *fakeChannel, delay time.Duration) (*Client, <-chan core.SignalEvent) {
	t.Helper()
	c := NewClient(ch, "C", "tok-123", delay)
	sub := c.Subscribe()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go c.Run(ctx)
	return c, sub
}

func waitEvent(t *testing.T, sub <-chan core.SignalEvent) core.SignalEvent {
	t.Helper()
	select {
	case ev := <-sub:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for signal event")
		return nil
	}
}

func TestConnectLifecycleEvents(t *testing.T) {
	ch := newFakeChannel()
	_, sub := startClient(t, ch, time.Minute)

	ch.events <- core.ChannelEvent{Kind: core.ChannelOpen}
	assert.IsType(t, core.Connected{}, waitEvent(t, sub))

	ch.events <- core.ChannelEvent{Kind: core.ChannelClosed}
	assert.IsType(t, core.Disconnected{}, waitEvent(t, sub))
}

func TestDecodedEventsReachAllSubscribers(t *testing.T) {
	ch := newFakeChannel()
	c, sub := startClient(t, ch, time.Minute)
	sub2 := c.Subscribe()

	ch.events <- core.ChannelEvent{Kind: core.ChannelText, Text: `{"id":"participantLeft","userId":"B"}`}
	for _, s := range []<-chan core.SignalEvent{sub, sub2} {
		ev := waitEvent(t, s)
		assert.Equal(t, core.ParticipantLeft{UserID: "B"}, ev)
	}
}

func TestMalformedMessageDroppedConnectionKept(t *testing.T) {
	ch := newFakeChannel()
	_, sub := startClient(t, ch, time.Minute)

	ch.events <- core.ChannelEvent{Kind: core.ChannelText, Text: `{broken`}
	ch.events <- core.ChannelEvent{Kind: core.ChannelText, Text: `{"id":"somethingNew"}`}

	select {
	case ev := <-sub:
		t.Fatalf("unexpected event %#v", ev)
	case <-time.After(100 * time.Millisecond):
	}

	assert.False(t, ch.closed)

	// Still decoding afterwards.
	ch.events <- core.ChannelEvent{Kind: core.ChannelText, Text: `{"id":"participantLeft","userId":"X"}`}
	assert.Equal(t, core.ParticipantLeft{UserID: "X"}, waitEvent(t, sub))
}

func TestReconnectAfterFixedDelay(t *testing.T) {
	ch := newFakeChannel()
	_, sub := startClient(t, ch, 60*time.Millisecond)

	ch.events <- core.ChannelEvent{Kind: core.ChannelClosed}
	assert.IsType(t, core.Disconnected{}, waitEvent(t, sub))

	// Not before the delay elapses.
	assert.Never(t, func() bool { return ch.connectCount() > 0 }, 40*time.Millisecond, 5*time.Millisecond)

	// Exactly one attempt afterwards.
	assert.Eventually(t, func() bool { return ch.connectCount() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 1, ch.connectCount())
}

func TestNoReconnectAfterClose(t *testing.T) {
	ch := newFakeChannel()
	c, sub := startClient(t, ch, 200*time.Millisecond)

	ch.events <- core.ChannelEvent{Kind: core.ChannelClosed}
	assert.IsType(t, core.Disconnected{}, waitEvent(t, sub))
	c.Close()

	time.Sleep(350 * time.Millisecond)
	assert.Zero(t, ch.connectCount())
	assert.True(t, ch.closed)
}

func TestJoinRoomWireFormat(t *testing.T) {
	ch := newFakeChannel()
	c, _ := startClient(t, ch, time.Minute)

	require.NoError(t, c.JoinRoom(domain.SoloCommunity, "167"))
	m := ch.lastSent(t)
	assert.Equal(t, "joinRoom", m["id"])
	assert.Equal(t, "tok-123", m["token"])
	assert.Equal(t, "C", m["userId"])
	assert.Equal(t, "r-167", m["roomId"])
	assert.Equal(t, true, m["video"])
	assert.Equal(t, true, m["audio"])

	require.NoError(t, c.JoinRoom("49", "167"))
	assert.Equal(t, "c-167", ch.lastSent(t)["roomId"])
}

func TestSendDescriptionAndCandidateTargeting(t *testing.T) {
	ch := newFakeChannel()
	c, _ := startClient(t, ch, time.Minute)

	require.NoError(t, c.SendDescription("A", domain.SessionDescription{Kind: domain.SDPOffer, SDP: "v=0"}))
	m := ch.lastSent(t)
	assert.Equal(t, "receiveVideoFrom", m["id"])
	assert.Equal(t, "A", m["userId"])
	assert.Equal(t, "v=0", m["sdpOffer"])

	require.NoError(t, c.SendCandidate("B", domain.IceCandidate{Candidate: "candidate:1", SDPMLineIndex: 2, SDPMid: "audio"}))
	m = ch.lastSent(t)
	assert.Equal(t, "onIceCandidate", m["id"])
	// The candidate goes to its actual destination, not a placeholder.
	assert.Equal(t, "B", m["userId"])
	inner, ok := m["candidate"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "candidate:1", inner["candidate"])
	assert.Equal(t, float64(2), inner["sdpMLineIndex"])
	assert.Equal(t, "audio", inner["sdpMid"])
}

func TestLeaveRoomWireFormat(t *testing.T) {
	ch := newFakeChannel()
	c, _ := startClient(t, ch, time.Minute)

	require.NoError(t, c.LeaveRoom())
	assert.Equal(t, map[string]any{"id": "leaveRoom"}, ch.lastSent(t))
}
