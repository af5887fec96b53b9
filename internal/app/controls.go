package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/core"
)

// Controls serializes media reconfiguration (mute, video toggles) on
// its own queue so a slow device operation never stalls negotiation.
// Desired state is remembered and applied to sessions created later.
type Controls struct {
	reg *Registry
	ops chan func()

	// touched only from the Run goroutine
	muted    bool
	videoOff bool
}

func NewControls(reg *Registry) *Controls {
	return &Controls{reg: reg, ops: make(chan func(), 16)}
}

func (c *Controls) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case op := <-c.ops:
			op()
		}
	}
}

func (c *Controls) MuteAudio()   { c.post(func() { c.setAudio(false) }) }
func (c *Controls) UnmuteAudio() { c.post(func() { c.setAudio(true) }) }
func (c *Controls) VideoOff()    { c.post(func() { c.setVideo(false) }) }
func (c *Controls) VideoOn()     { c.post(func() { c.setVideo(true) }) }

// Apply brings a fresh session in line with the current desired state.
func (c *Controls) Apply(ms core.MediaSession) {
	c.post(func() {
		ms.SetAudioEnabled(!c.muted)
		ms.SetVideoEnabled(!c.videoOff)
	})
}

func (c *Controls) post(op func()) {
	select {
	case c.ops <- op:
	default:
		log.Warn().Str("module", "app.controls").Msg("control queue full, dropping")
	}
}

func (c *Controls) setAudio(enabled bool) {
	c.muted = !enabled
	c.reg.Each(func(ps *PeerSession) { ps.Media.SetAudioEnabled(enabled) })
	log.Info().Str("module", "app.controls").Bool("muted", c.muted).Msg("audio state")
}

func (c *Controls) setVideo(enabled bool) {
	c.videoOff = !enabled
	c.reg.Each(func(ps *PeerSession) { ps.Media.SetVideoEnabled(enabled) })
	log.Info().Str("module", "app.controls").Bool("video_off", c.videoOff).Msg("video state")
}
