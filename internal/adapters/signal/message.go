package signal

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

// Wire discriminators, field "id". The vocabulary is the room server's,
// so the names are not symmetric: descriptions go out as
// "receiveVideoFrom" and come back as "receiveVideoAnswer".
const (
	msgJoinRoom      = "joinRoom"
	msgLeaveRoom     = "leaveRoom"
	msgSendDesc      = "receiveVideoFrom"
	msgSendCandidate = "onIceCandidate"
	msgRoster        = "existingParticipants"
	msgArrived       = "newParticipantArrived"
	msgLeft          = "participantLeft"
	msgRemoteDesc    = "receiveVideoAnswer"
	msgRemoteCand    = "iceCandidate"
)

type joinRoomMsg struct {
	ID          string `json:"id"`
	Token       string `json:"token"`
	UserID      string `json:"userId"`
	CommunityID string `json:"communityId"`
	RoomID      string `json:"roomId"`
	Video       bool   `json:"video"`
	Audio       bool   `json:"audio"`
}

type leaveRoomMsg struct {
	ID string `json:"id"`
}

type descriptionMsg struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	SDPOffer string `json:"sdpOffer"`
}

type wireCandidate struct {
	Candidate     string `json:"candidate"`
	SDPMLineIndex uint16 `json:"sdpMLineIndex"`
	SDPMid        string `json:"sdpMid,omitempty"`
}

type candidateMsg struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	Candidate wireCandidate `json:"candidate"`
}

type rosterMsg struct {
	Members []domain.MemberInfo `json:"members"`
}

type arrivedMsg struct {
	Member domain.MemberInfo `json:"member"`
}

type leftMsg struct {
	UserID domain.ParticipantID `json:"userId"`
}

type remoteDescMsg struct {
	UserID    domain.ParticipantID `json:"userId"`
	SDPAnswer string               `json:"sdpAnswer"`
}

type remoteCandMsg struct {
	UserID    domain.ParticipantID `json:"userId"`
	Candidate wireCandidate        `json:"candidate"`
}

func toWireCandidate(c domain.IceCandidate) wireCandidate {
	return wireCandidate{
		Candidate:     c.Candidate,
		SDPMLineIndex: c.SDPMLineIndex,
		SDPMid:        c.SDPMid,
	}
}

func (w wireCandidate) toDomain() domain.IceCandidate {
	return domain.IceCandidate{
		Candidate:     w.Candidate,
		SDPMLineIndex: w.SDPMLineIndex,
		SDPMid:        w.SDPMid,
	}
}

// decodeSignal turns one inbound text frame into a typed event.
// Unknown discriminators return (nil, nil): the protocol is
// forward-compatible and new message kinds must not break old clients.
func decodeSignal(data []byte) (core.SignalEvent, error) {
	var env struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("bad envelope: %w", err)
	}
	if env.ID == "" {
		return nil, fmt.Errorf("missing discriminator")
	}

	switch env.ID {
	case msgRoster:
		var m rosterMsg
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("bad %s: %w", msgRoster, err)
		}
		return core.RosterSnapshot{Members: m.Members}, nil
	case msgArrived:
		var m arrivedMsg
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("bad %s: %w", msgArrived, err)
		}
		return core.ParticipantJoined{Member: m.Member}, nil
	case msgLeft:
		var m leftMsg
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("bad %s: %w", msgLeft, err)
		}
		return core.ParticipantLeft{UserID: m.UserID}, nil
	case msgRemoteDesc:
		var m remoteDescMsg
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("bad %s: %w", msgRemoteDesc, err)
		}
		return core.RemoteDescription{
			UserID:      m.UserID,
			Description: domain.SessionDescription{Kind: domain.SDPAnswer, SDP: m.SDPAnswer},
		}, nil
	case msgRemoteCand:
		var m remoteCandMsg
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("bad %s: %w", msgRemoteCand, err)
		}
		return core.RemoteCandidate{UserID: m.UserID, Candidate: m.Candidate.toDomain()}, nil
	default:
		return nil, nil
	}
}
