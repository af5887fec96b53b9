package orch

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

// reconcileRoster makes the session set equal the snapshot minus self:
// a session per unseen member (we just joined, so we offer to each),
// and stale sessions closed. Rejoining after a reconnect heals through
// the same path.
func (o *Orchestrator) reconcileRoster(ctx context.Context, members []domain.MemberInfo) {
	seen := make(map[domain.ParticipantID]bool, len(members))
	for _, m := range members {
		if m.UserID == o.Self {
			continue
		}
		seen[m.UserID] = true
		if o.Sessions.Has(m.UserID) {
			continue
		}
		ps, err := o.createSession(ctx, m.UserID)
		if err != nil {
			return
		}
		o.sendOffer(ps.ID)
	}
	for _, id := range o.Sessions.IDs() {
		if !seen[id] {
			log.Warn().Str("module", "orch").Str("peer", string(id)).Msg("closing session absent from roster")
			o.closeSession(id)
		}
	}
}

func (o *Orchestrator) onParticipantJoined(ctx context.Context, m domain.MemberInfo) {
	if m.UserID == o.Self {
		return
	}
	if o.Sessions.Has(m.UserID) {
		log.Warn().Str("module", "orch").Str("peer", string(m.UserID)).Msg("join for existing session, keeping it")
		return
	}
	ps, err := o.createSession(ctx, m.UserID)
	if err != nil {
		return
	}
	if o.Policy.ShouldOffer(o.Self, m.UserID) {
		o.sendOffer(ps.ID)
	}
}

// closeSession is idempotent: an unknown participant is a no-op, not an
// error, because leave events may trail behind teardown.
func (o *Orchestrator) closeSession(id domain.ParticipantID) {
	ps, ok := o.Sessions.Remove(id)
	if !ok {
		log.Warn().Str("module", "orch").Str("peer", string(id)).Msg("no session to close")
		return
	}
	ps.Media.Close()
	o.status.Publish(core.SessionClosed{UserID: id})
}

func (o *Orchestrator) teardownAll() {
	for _, id := range o.Sessions.IDs() {
		o.closeSession(id)
	}
}
