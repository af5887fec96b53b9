package orch

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

const taskQueue = 256

// Orchestrator keeps the peer-session set consistent with room
// membership and drives every session's offer/answer exchange.
//
// One goroutine (Run) owns all mutation: signaling events and media
// engine callbacks are funneled through the same loop, callbacks by
// posting into tasks. Nothing else writes to Sessions.
type Orchestrator struct {
	Self      domain.ParticipantID
	Community domain.CommunityID
	Room      domain.RoomID

	Sessions *app.Registry
	Engine   core.MediaEngine
	Signals  core.Signaler
	Policy   app.OfferPolicy
	Controls *app.Controls

	status *core.Bus[core.StatusEvent]
	tasks  chan func()
}

func New(self domain.ParticipantID, community domain.CommunityID, room domain.RoomID,
	sessions *app.Registry, engine core.MediaEngine, signals core.Signaler, policy app.OfferPolicy,
) *Orchestrator {
	if policy == nil {
		policy = app.AlwaysOffer{}
	}
	return &Orchestrator{
		Self:      self,
		Community: community,
		Room:      room,
		Sessions:  sessions,
		Engine:    engine,
		Signals:   signals,
		Policy:    policy,
		status:    core.NewBus[core.StatusEvent](),
		tasks:     make(chan func(), taskQueue),
	}
}

// Status attaches one more independent observer.
func (o *Orchestrator) Status() <-chan core.StatusEvent {
	return o.status.Subscribe()
}

// Snapshot is safe to call from any goroutine.
func (o *Orchestrator) Snapshot() core.RoomSnapshot {
	return core.RoomSnapshot{
		Self:  o.Self,
		Room:  domain.RoomKey(o.Community, o.Room),
		Peers: o.Sessions.Snapshot(),
	}
}

// Run consumes the signaling subscription until ctx is done, then
// releases every session.
func (o *Orchestrator) Run(ctx context.Context) {
	events := o.Signals.Subscribe()
	for {
		select {
		case <-ctx.Done():
			o.teardownAll()
			return
		case ev := <-events:
			o.handleSignal(ctx, ev)
		case fn := <-o.tasks:
			fn()
		}
	}
}

// post hands work from an engine callback goroutine back into the loop.
func (o *Orchestrator) post(fn func()) {
	o.tasks <- fn
}

func (o *Orchestrator) handleSignal(ctx context.Context, ev core.SignalEvent) {
	switch e := ev.(type) {
	case core.Connected:
		log.Info().Str("module", "orch").Msg("signaling up, joining room")
		if err := o.Signals.JoinRoom(o.Community, o.Room); err != nil {
			log.Error().Err(err).Str("module", "orch").Msg("join room")
		}
	case core.Disconnected:
		log.Warn().Str("module", "orch").Msg("signaling down")
	case core.RosterSnapshot:
		o.reconcileRoster(ctx, e.Members)
	case core.ParticipantJoined:
		o.onParticipantJoined(ctx, e.Member)
	case core.ParticipantLeft:
		o.closeSession(e.UserID)
	case core.RemoteDescription:
		o.onRemoteDescription(e.UserID, e.Description)
	case core.RemoteCandidate:
		o.onRemoteCandidate(e.UserID, e.Candidate)
	}
}

// Leave announces departure on the wire. Session teardown happens in
// Run when the owner cancels the context.
func (o *Orchestrator) Leave() {
	if err := o.Signals.LeaveRoom(); err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("leave room")
	}
}
