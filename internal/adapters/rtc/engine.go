package rtc

import (
	"context"
	"fmt"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

// Engine is the pion-backed media-transport factory. It is an explicit
// object handed to the orchestrator; there is no package-level state.
type Engine struct {
	cfg webrtc.Configuration
}

func NewEngine(iceServers []string, username, credential string) *Engine {
	server := webrtc.ICEServer{URLs: iceServers}
	if username != "" {
		server.Username = username
		server.Credential = credential
	}
	return &Engine{
		cfg: webrtc.Configuration{
			ICEServers: []webrtc.ICEServer{server},
		},
	}
}

// NewSession allocates one peer connection configured to send and
// receive both audio and video.
func (e *Engine) NewSession(_ context.Context, peer domain.ParticipantID) (core.MediaSession, error) {
	pc, err := webrtc.NewPeerConnection(e.cfg)
	if err != nil {
		return nil, fmt.Errorf("new peer connection: %w", err)
	}

	s := &Session{pc: pc, peer: peer}

	audio, err := webrtc.NewTrackLocalStaticSample(
		webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus},
		"audio-"+string(peer), string(peer),
	)
	if err == nil {
		s.audioTrack = audio
		s.audioSender, err = pc.AddTrack(audio)
	}
	if err != nil {
		_ = pc.Close()
		return nil, fmt.Errorf("audio track: %w", err)
	}

	video, err := webrtc.NewTrackLocalStaticSample(
		webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8},
		"video-"+string(peer), string(peer),
	)
	if err == nil {
		s.videoTrack = video
		s.videoSender, err = pc.AddTrack(video)
	}
	if err != nil {
		_ = pc.Close()
		return nil, fmt.Errorf("video track: %w", err)
	}

	pc.OnICECandidate(func(cand *webrtc.ICECandidate) {
		if cand == nil {
			return
		}
		s.mu.Lock()
		fn := s.onCandidate
		s.mu.Unlock()
		if fn != nil {
			fn(fromICECandidateInit(cand.ToJSON()))
		}
	})

	pc.OnICEConnectionStateChange(func(st webrtc.ICEConnectionState) {
		log.Info().Str("module", "rtc").Str("peer", string(peer)).Str("ice_state", st.String()).Msg("ICE state")
		s.mu.Lock()
		fn := s.onState
		s.mu.Unlock()
		if fn != nil {
			fn(mapConnectionState(st))
		}
	})

	return s, nil
}

func mapConnectionState(st webrtc.ICEConnectionState) domain.ConnectionState {
	switch st {
	case webrtc.ICEConnectionStateChecking:
		return domain.StateChecking
	case webrtc.ICEConnectionStateConnected:
		return domain.StateConnected
	case webrtc.ICEConnectionStateCompleted:
		return domain.StateCompleted
	case webrtc.ICEConnectionStateDisconnected:
		return domain.StateDisconnected
	case webrtc.ICEConnectionStateFailed:
		return domain.StateFailed
	case webrtc.ICEConnectionStateClosed:
		return domain.StateClosed
	default:
		return domain.StateNew
	}
}

var _ core.MediaEngine = (*Engine)(nil)
