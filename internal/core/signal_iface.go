package core

import (
	"context"

	"github.com/dkeye/Meet/internal/domain"
)

// ChannelEventKind enumerates what a transport channel can report.
type ChannelEventKind int

const (
	ChannelOpen ChannelEventKind = iota
	ChannelClosed
	ChannelText
)

type ChannelEvent struct {
	Kind ChannelEventKind
	Text string
	Err  error
}

// SignalChannel abstracts the persistent message transport to the
// signaling server. Connect is idempotent and may be called again after
// the channel reported ChannelClosed.
type SignalChannel interface {
	Connect(ctx context.Context) error
	SendText(text string) error
	Events() <-chan ChannelEvent
	Close()
}

// Signaler is the room-protocol surface the orchestrator drives.
// Implemented by adapters/signal.Client.
type Signaler interface {
	JoinRoom(community domain.CommunityID, room domain.RoomID) error
	LeaveRoom() error
	SendDescription(to domain.ParticipantID, desc domain.SessionDescription) error
	SendCandidate(to domain.ParticipantID, cand domain.IceCandidate) error
	Subscribe() <-chan SignalEvent
}
