package rtc

import (
	"testing"

	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Meet/internal/domain"
)

func TestCandidateConversionRoundTrip(t *testing.T) {
	cand := domain.IceCandidate{
		Candidate:     "candidate:1 1 UDP 2122252543 192.0.2.1 54321 typ host",
		SDPMLineIndex: 1,
		SDPMid:        "video",
	}

	ci := toICECandidateInit(cand)
	require.NotNil(t, ci.SDPMLineIndex)
	require.NotNil(t, ci.SDPMid)
	assert.Equal(t, cand, fromICECandidateInit(ci))
}

func TestCandidateConversionWithoutMid(t *testing.T) {
	cand := domain.IceCandidate{Candidate: "candidate:2", SDPMLineIndex: 0}

	ci := toICECandidateInit(cand)
	assert.Nil(t, ci.SDPMid)
	assert.Equal(t, cand, fromICECandidateInit(ci))
}

func TestMapConnectionState(t *testing.T) {
	cases := map[webrtc.ICEConnectionState]domain.ConnectionState{
		webrtc.ICEConnectionStateNew:          domain.StateNew,
		webrtc.ICEConnectionStateChecking:     domain.StateChecking,
		webrtc.ICEConnectionStateConnected:    domain.StateConnected,
		webrtc.ICEConnectionStateCompleted:    domain.StateCompleted,
		webrtc.ICEConnectionStateDisconnected: domain.StateDisconnected,
		webrtc.ICEConnectionStateFailed:       domain.StateFailed,
		webrtc.ICEConnectionStateClosed:       domain.StateClosed,
	}
	for in, want := range cases {
		assert.Equal(t, want, mapConnectionState(in))
	}
}
