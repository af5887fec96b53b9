package orch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

// createSession allocates a media session for one peer and wires its
// callbacks back into the orchestrator loop. An allocation failure is
// unrecoverable and published as fatal.
func (o *Orchestrator) createSession(ctx context.Context, id domain.ParticipantID) (*app.PeerSession, error) {
	ms, err := o.Engine.NewSession(ctx, id)
	if err != nil {
		err = fmt.Errorf("allocate media session for %s: %w", id, err)
		log.Error().Err(err).Str("module", "orch").Msg("media engine exhausted")
		o.status.Publish(core.FatalError{Err: err})
		return nil, err
	}

	ps := &app.PeerSession{
		ID:    id,
		Media: ms,
		Phase: domain.PhaseCreated,
		State: domain.StateNew,
	}

	// Engine callbacks arrive on unspecified goroutines; hop back into
	// the loop before touching any session state.
	ms.OnLocalCandidate(func(cand domain.IceCandidate) {
		o.post(func() { o.onLocalCandidate(id, cand) })
	})
	ms.OnStateChange(func(st domain.ConnectionState) {
		o.post(func() { o.onStateChange(id, st) })
	})

	o.Sessions.Add(ps)
	if o.Controls != nil {
		o.Controls.Apply(ms)
	}
	o.status.Publish(core.SessionOpened{UserID: id})
	log.Info().Str("module", "orch").Str("peer", string(id)).Msg("session created")
	return ps, nil
}

// sendOffer runs the two-step offer sequence: the description is
// committed locally by GenerateOffer before it goes on the wire.
func (o *Orchestrator) sendOffer(id domain.ParticipantID) {
	ps, ok := o.Sessions.Get(id)
	if !ok {
		return
	}
	desc, err := ps.Media.GenerateOffer()
	if err != nil {
		o.sessionError(id, fmt.Errorf("generate offer: %w", err))
		return
	}
	o.Sessions.Update(id, func(p *app.PeerSession) { p.Phase = domain.PhaseLocalOfferSent })
	if err := o.Signals.SendDescription(id, desc); err != nil {
		log.Error().Err(err).Str("module", "orch").Str("peer", string(id)).Msg("send offer")
	}
}

// onRemoteDescription applies an answer, or answers a remote offer for
// the rare peer that makes us the answering side. Failures leave the
// session open: some negotiation errors recover on renegotiation.
func (o *Orchestrator) onRemoteDescription(id domain.ParticipantID, desc domain.SessionDescription) {
	ps, ok := o.Sessions.Get(id)
	if !ok {
		log.Warn().Str("module", "orch").Str("peer", string(id)).Msg("description for unknown participant, dropping")
		return
	}

	if desc.Kind == domain.SDPOffer {
		o.Sessions.Update(id, func(p *app.PeerSession) { p.Phase = domain.PhaseRemoteOfferReceived })
		if err := ps.Media.ApplyRemoteDescription(desc); err != nil {
			o.sessionError(id, fmt.Errorf("apply remote offer: %w", err))
			return
		}
		answer, err := ps.Media.GenerateAnswer()
		if err != nil {
			o.sessionError(id, fmt.Errorf("generate answer: %w", err))
			return
		}
		o.Sessions.Update(id, func(p *app.PeerSession) { p.Phase = domain.PhaseLocalAnswerSent })
		if err := o.Signals.SendDescription(id, answer); err != nil {
			log.Error().Err(err).Str("module", "orch").Str("peer", string(id)).Msg("send answer")
		}
		return
	}

	if err := ps.Media.ApplyRemoteDescription(desc); err != nil {
		o.sessionError(id, fmt.Errorf("apply remote answer: %w", err))
		return
	}
	o.Sessions.Update(id, func(p *app.PeerSession) { p.Phase = domain.PhaseRemoteAnswerApplied })
}

// onRemoteCandidate always counts the candidate and never escalates an
// application failure; candidates legitimately race the descriptions.
func (o *Orchestrator) onRemoteCandidate(id domain.ParticipantID, cand domain.IceCandidate) {
	ps, ok := o.Sessions.Get(id)
	if !ok {
		log.Warn().Str("module", "orch").Str("peer", string(id)).Msg("candidate for unknown participant, dropping")
		return
	}
	var count int
	o.Sessions.Update(id, func(p *app.PeerSession) {
		p.RemoteCandidates++
		count = p.RemoteCandidates
	})
	if err := ps.Media.AddRemoteCandidate(cand); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("peer", string(id)).Msg("remote candidate rejected")
	}
	o.status.Publish(core.RemoteCandidateApplied{UserID: id, Count: count})
}

// onLocalCandidate relays a discovered candidate to the peer it belongs
// to. A session closed while the task sat in the queue means we drop
// the candidate silently.
func (o *Orchestrator) onLocalCandidate(id domain.ParticipantID, cand domain.IceCandidate) {
	var count int
	if !o.Sessions.Update(id, func(p *app.PeerSession) {
		p.LocalCandidates++
		count = p.LocalCandidates
	}) {
		return
	}
	if err := o.Signals.SendCandidate(id, cand); err != nil {
		log.Error().Err(err).Str("module", "orch").Str("peer", string(id)).Msg("send candidate")
	}
	o.status.Publish(core.LocalCandidateFound{UserID: id, Count: count})
}

func (o *Orchestrator) onStateChange(id domain.ParticipantID, st domain.ConnectionState) {
	if !o.Sessions.Update(id, func(p *app.PeerSession) { p.State = st }) {
		return
	}
	log.Info().Str("module", "orch").Str("peer", string(id)).Str("state", string(st)).Msg("connection state")
	o.status.Publish(core.SessionStateChanged{UserID: id, State: st})
}

func (o *Orchestrator) sessionError(id domain.ParticipantID, err error) {
	log.Error().Err(err).Str("module", "orch").Str("peer", string(id)).Msg("negotiation error")
	o.status.Publish(core.SessionError{UserID: id, Err: err})
}
