package domain

// SDPKind distinguishes the two roles of a session description.
type SDPKind string

const (
	SDPOffer  SDPKind = "offer"
	SDPAnswer SDPKind = "answer"
)

// SessionDescription is an opaque negotiation blob produced by the media
// engine and transported verbatim by the signaling client.
type SessionDescription struct {
	Kind SDPKind
	SDP  string
}

// IceCandidate is one discovered network path descriptor. An empty
// SDPMid means the field was absent on the wire.
type IceCandidate struct {
	Candidate     string
	SDPMLineIndex uint16
	SDPMid        string
}

// ConnectionState mirrors the ICE connection state of one media session.
type ConnectionState string

const (
	StateNew          ConnectionState = "new"
	StateChecking     ConnectionState = "checking"
	StateConnected    ConnectionState = "connected"
	StateCompleted    ConnectionState = "completed"
	StateDisconnected ConnectionState = "disconnected"
	StateFailed       ConnectionState = "failed"
	StateClosed       ConnectionState = "closed"
)

// NegotiationPhase tracks how far the offer/answer exchange of one peer
// session has progressed. Candidates flow independently of the phase.
type NegotiationPhase string

const (
	PhaseCreated             NegotiationPhase = "created"
	PhaseLocalOfferSent      NegotiationPhase = "local-offer-sent"
	PhaseRemoteOfferReceived NegotiationPhase = "remote-offer-received"
	PhaseLocalAnswerSent     NegotiationPhase = "local-answer-sent"
	PhaseRemoteAnswerApplied NegotiationPhase = "remote-answer-applied"
)
