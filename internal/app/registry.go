package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

// PeerSession is the orchestrator's record for one remote participant:
// the media session handle it exclusively owns plus negotiation state
// and candidate counters. Field mutation goes through Registry.Update.
type PeerSession struct {
	ID               domain.ParticipantID
	Media            core.MediaSession
	Phase            domain.NegotiationPhase
	State            domain.ConnectionState
	LocalCandidates  int
	RemoteCandidates int
}

// Registry holds the live peer-session set, keyed by participant id.
// One writer (the orchestrator loop) mutates it; the lock exists for
// concurrent readers such as the status API.
type Registry struct {
	mu    sync.RWMutex
	peers map[domain.ParticipantID]*PeerSession
}

func NewRegistry() *Registry {
	return &Registry{peers: make(map[domain.ParticipantID]*PeerSession)}
}

// Add registers a session; a second session for the same participant is
// refused, the invariant is one session per peer.
func (r *Registry) Add(ps *PeerSession) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.peers[ps.ID]; ok {
		return false
	}
	r.peers[ps.ID] = ps
	log.Info().Str("module", "app.registry").Str("peer", string(ps.ID)).Msg("session registered")
	return true
}

func (r *Registry) Get(id domain.ParticipantID) (*PeerSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ps, ok := r.peers[id]
	return ps, ok
}

func (r *Registry) Has(id domain.ParticipantID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.peers[id]
	return ok
}

// Remove detaches the session for id. Unknown ids are a no-op, never an
// error: leave events and teardown may race.
func (r *Registry) Remove(id domain.ParticipantID) (*PeerSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ps, ok := r.peers[id]
	if !ok {
		return nil, false
	}
	delete(r.peers, id)
	log.Info().Str("module", "app.registry").Str("peer", string(id)).Msg("session removed")
	return ps, true
}

// Update applies fn to the session under the write lock; returns false
// when the session is gone, which callers treat as "stop, it was closed".
func (r *Registry) Update(id domain.ParticipantID, fn func(*PeerSession)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	ps, ok := r.peers[id]
	if !ok {
		return false
	}
	fn(ps)
	return true
}

func (r *Registry) IDs() []domain.ParticipantID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ParticipantID, 0, len(r.peers))
	for id := range r.peers {
		out = append(out, id)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.peers)
}

// Each visits every session under the read lock; fn must be quick and
// must not mutate the registry.
func (r *Registry) Each(fn func(*PeerSession)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ps := range r.peers {
		fn(ps)
	}
}

func (r *Registry) Snapshot() []core.PeerSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.PeerSnapshot, 0, len(r.peers))
	for _, ps := range r.peers {
		out = append(out, core.PeerSnapshot{
			UserID:           ps.ID,
			Phase:            ps.Phase,
			State:            ps.State,
			LocalCandidates:  ps.LocalCandidates,
			RemoteCandidates: ps.RemoteCandidates,
		})
	}
	return out
}
