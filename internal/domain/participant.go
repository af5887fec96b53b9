// Package domain contains entity without logic, just meta-data
package domain

// ParticipantID identifies one room participant as assigned by the
// signaling server. It is the key of every per-peer structure.
type ParticipantID string

// MemberInfo is the roster entry the server sends for each participant.
type MemberInfo struct {
	UserID ParticipantID `json:"userId"`
	Video  bool          `json:"video"`
	Audio  bool          `json:"audio"`
}
