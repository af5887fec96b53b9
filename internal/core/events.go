package core

import "github.com/dkeye/Meet/internal/domain"

// SignalEvent is the decoded, typed form of one inbound signaling
// message (or a transport status change).
type SignalEvent interface{ isSignalEvent() }

type (
	Connected    struct{}
	Disconnected struct{}

	RosterSnapshot struct {
		Members []domain.MemberInfo
	}
	ParticipantJoined struct {
		Member domain.MemberInfo
	}
	ParticipantLeft struct {
		UserID domain.ParticipantID
	}
	RemoteDescription struct {
		UserID      domain.ParticipantID
		Description domain.SessionDescription
	}
	RemoteCandidate struct {
		UserID    domain.ParticipantID
		Candidate domain.IceCandidate
	}
)

func (Connected) isSignalEvent()         {}
func (Disconnected) isSignalEvent()      {}
func (RosterSnapshot) isSignalEvent()    {}
func (ParticipantJoined) isSignalEvent() {}
func (ParticipantLeft) isSignalEvent()   {}
func (RemoteDescription) isSignalEvent() {}
func (RemoteCandidate) isSignalEvent()   {}

// StatusEvent is what the orchestrator surfaces to its observers.
type StatusEvent interface{ isStatusEvent() }

type (
	SessionOpened struct {
		UserID domain.ParticipantID
	}
	SessionClosed struct {
		UserID domain.ParticipantID
	}
	SessionStateChanged struct {
		UserID domain.ParticipantID
		State  domain.ConnectionState
	}
	LocalCandidateFound struct {
		UserID domain.ParticipantID
		Count  int
	}
	RemoteCandidateApplied struct {
		UserID domain.ParticipantID
		Count  int
	}
	SessionError struct {
		UserID domain.ParticipantID
		Err    error
	}
	// FatalError means the media engine could not allocate a session;
	// the process owner decides what to do, nothing here recovers.
	FatalError struct {
		Err error
	}
)

func (SessionOpened) isStatusEvent()          {}
func (SessionClosed) isStatusEvent()          {}
func (SessionStateChanged) isStatusEvent()    {}
func (LocalCandidateFound) isStatusEvent()    {}
func (RemoteCandidateApplied) isStatusEvent() {}
func (SessionError) isStatusEvent()           {}
func (FatalError) isStatusEvent()             {}
