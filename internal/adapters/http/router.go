package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkeye/Meet/internal/adapters/signal"
	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/app/orch"
	"github.com/dkeye/Meet/internal/config"
)

// SetupRouter exposes the observability surface of the client: room and
// per-session state, plus the media control toggles. It only observes
// snapshots and posts into the control queue; nothing here mutates the
// session set directly.
func SetupRouter(cfg *config.Config, o *orch.Orchestrator, sig *signal.Client, controls *app.Controls) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := r.Group("/api")
	api.GET("/status", func(c *gin.Context) {
		snap := o.Snapshot()
		snap.Connected = sig.IsConnected()
		c.JSON(http.StatusOK, snap)
	})

	api.POST("/audio/mute", func(c *gin.Context) {
		controls.MuteAudio()
		c.Status(http.StatusAccepted)
	})
	api.POST("/audio/unmute", func(c *gin.Context) {
		controls.UnmuteAudio()
		c.Status(http.StatusAccepted)
	})
	api.POST("/video/on", func(c *gin.Context) {
		controls.VideoOn()
		c.Status(http.StatusAccepted)
	})
	api.POST("/video/off", func(c *gin.Context) {
		controls.VideoOff()
		c.Status(http.StatusAccepted)
	})

	return r
}
