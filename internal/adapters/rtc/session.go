package rtc

import (
	"fmt"
	"sync"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

// Session wraps one pion PeerConnection. Remote candidates may race the
// remote description; until the description lands they are parked in a
// pending queue and flushed afterwards, so ordering never matters to
// the caller.
type Session struct {
	pc   *webrtc.PeerConnection
	peer domain.ParticipantID

	audioTrack  *webrtc.TrackLocalStaticSample
	videoTrack  *webrtc.TrackLocalStaticSample
	audioSender *webrtc.RTPSender
	videoSender *webrtc.RTPSender

	mu          sync.Mutex
	remoteSet   bool
	pending     []webrtc.ICECandidateInit
	onCandidate func(domain.IceCandidate)
	onState     func(domain.ConnectionState)
	closeOnce   sync.Once
}

func (s *Session) OnLocalCandidate(fn func(domain.IceCandidate)) {
	s.mu.Lock()
	s.onCandidate = fn
	s.mu.Unlock()
}

func (s *Session) OnStateChange(fn func(domain.ConnectionState)) {
	s.mu.Lock()
	s.onState = fn
	s.mu.Unlock()
}

// GenerateOffer commits the offer as the local description before
// returning it, so the caller only ever transmits committed state.
func (s *Session) GenerateOffer() (domain.SessionDescription, error) {
	offer, err := s.pc.CreateOffer(nil)
	if err != nil {
		return domain.SessionDescription{}, fmt.Errorf("create offer: %w", err)
	}
	if err := s.pc.SetLocalDescription(offer); err != nil {
		return domain.SessionDescription{}, fmt.Errorf("set local description: %w", err)
	}
	return domain.SessionDescription{Kind: domain.SDPOffer, SDP: offer.SDP}, nil
}

func (s *Session) GenerateAnswer() (domain.SessionDescription, error) {
	answer, err := s.pc.CreateAnswer(nil)
	if err != nil {
		return domain.SessionDescription{}, fmt.Errorf("create answer: %w", err)
	}
	if err := s.pc.SetLocalDescription(answer); err != nil {
		return domain.SessionDescription{}, fmt.Errorf("set local description: %w", err)
	}
	return domain.SessionDescription{Kind: domain.SDPAnswer, SDP: answer.SDP}, nil
}

func (s *Session) ApplyRemoteDescription(desc domain.SessionDescription) error {
	sdpType := webrtc.SDPTypeAnswer
	if desc.Kind == domain.SDPOffer {
		sdpType = webrtc.SDPTypeOffer
	}
	if err := s.pc.SetRemoteDescription(webrtc.SessionDescription{Type: sdpType, SDP: desc.SDP}); err != nil {
		return fmt.Errorf("set remote description: %w", err)
	}

	s.mu.Lock()
	s.remoteSet = true
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, ci := range pending {
		if err := s.pc.AddICECandidate(ci); err != nil {
			log.Warn().Err(err).Str("module", "rtc").Str("peer", string(s.peer)).Msg("buffered candidate rejected")
		}
	}
	return nil
}

func (s *Session) AddRemoteCandidate(cand domain.IceCandidate) error {
	ci := toICECandidateInit(cand)
	s.mu.Lock()
	if !s.remoteSet {
		s.pending = append(s.pending, ci)
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()
	return s.pc.AddICECandidate(ci)
}

func (s *Session) SetAudioEnabled(enabled bool) {
	s.replaceTrack(s.audioSender, s.audioTrack, enabled)
}

func (s *Session) SetVideoEnabled(enabled bool) {
	s.replaceTrack(s.videoSender, s.videoTrack, enabled)
}

func (s *Session) replaceTrack(sender *webrtc.RTPSender, track *webrtc.TrackLocalStaticSample, enabled bool) {
	if sender == nil {
		return
	}
	var next webrtc.TrackLocal
	if enabled {
		next = track
	}
	if err := sender.ReplaceTrack(next); err != nil {
		log.Warn().Err(err).Str("module", "rtc").Str("peer", string(s.peer)).Msg("replace track")
	}
}

func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.onCandidate = nil
		s.onState = nil
		s.mu.Unlock()
		if err := s.pc.Close(); err != nil {
			log.Error().Err(err).Str("module", "rtc").Str("peer", string(s.peer)).Msg("close error")
			return
		}
		log.Info().Str("module", "rtc").Str("peer", string(s.peer)).Msg("session closed")
	})
}

func toICECandidateInit(c domain.IceCandidate) webrtc.ICECandidateInit {
	ci := webrtc.ICECandidateInit{Candidate: c.Candidate}
	idx := c.SDPMLineIndex
	ci.SDPMLineIndex = &idx
	if c.SDPMid != "" {
		mid := c.SDPMid
		ci.SDPMid = &mid
	}
	return ci
}

func fromICECandidateInit(ci webrtc.ICECandidateInit) domain.IceCandidate {
	cand := domain.IceCandidate{Candidate: ci.Candidate}
	if ci.SDPMLineIndex != nil {
		cand.SDPMLineIndex = *ci.SDPMLineIndex
	}
	if ci.SDPMid != nil {
		cand.SDPMid = *ci.SDPMid
	}
	return cand
}

var _ core.MediaSession = (*Session)(nil)
