package core

import "github.com/dkeye/Meet/internal/domain"

// PeerSnapshot is a read-only view of one peer session for APIs.
type PeerSnapshot struct {
	UserID           domain.ParticipantID    `json:"userId"`
	Phase            domain.NegotiationPhase `json:"phase"`
	State            domain.ConnectionState  `json:"state"`
	LocalCandidates  int                     `json:"localCandidates"`
	RemoteCandidates int                     `json:"remoteCandidates"`
}

// RoomSnapshot is the full observable state of the client.
type RoomSnapshot struct {
	Self      domain.ParticipantID `json:"self"`
	Room      string               `json:"room"`
	Connected bool                 `json:"connected"`
	Peers     []PeerSnapshot       `json:"peers"`
}
