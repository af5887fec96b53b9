package core

import (
	"context"

	"github.com/dkeye/Meet/internal/domain"
)

// MediaSession is one peer-to-peer media session. Implementations run
// their own worker threads; callbacks arrive on unspecified goroutines
// and the caller is responsible for handing them off to its own context.
type MediaSession interface {
	// GenerateOffer creates a local offer and commits it as the local
	// description before returning it.
	GenerateOffer() (domain.SessionDescription, error)
	// GenerateAnswer creates a local answer for a previously applied
	// remote offer and commits it before returning it.
	GenerateAnswer() (domain.SessionDescription, error)
	ApplyRemoteDescription(desc domain.SessionDescription) error
	// AddRemoteCandidate never fails on ordering: candidates arriving
	// before the remote description are buffered inside the session.
	AddRemoteCandidate(cand domain.IceCandidate) error
	OnLocalCandidate(fn func(domain.IceCandidate))
	OnStateChange(fn func(domain.ConnectionState))
	SetAudioEnabled(enabled bool)
	SetVideoEnabled(enabled bool)
	Close()
}

// MediaEngine allocates media sessions. An allocation failure is an
// unrecoverable resource condition for the caller.
type MediaEngine interface {
	NewSession(ctx context.Context, peer domain.ParticipantID) (MediaSession, error)
}
