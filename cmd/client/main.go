package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/Meet/internal/adapters/http"
	"github.com/dkeye/Meet/internal/adapters/rtc"
	sig "github.com/dkeye/Meet/internal/adapters/signal"
	"github.com/dkeye/Meet/internal/adapters/ws"
	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/app/orch"
	"github.com/dkeye/Meet/internal/config"
	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	channel := ws.NewChannel(cfg.ServerURL)
	client := sig.NewClient(channel, domain.ParticipantID(cfg.UserID), cfg.Token, cfg.ReconnectDelay)
	engine := rtc.NewEngine(cfg.ICEServers, cfg.ICEUsername, cfg.ICECredential)

	sessions := app.NewRegistry()
	controls := app.NewControls(sessions)

	o := orch.New(
		domain.ParticipantID(cfg.UserID),
		domain.CommunityID(cfg.CommunityID),
		domain.RoomID(cfg.RoomID),
		sessions, engine, client,
		app.PolicyFromName(cfg.GlarePolicy),
	)
	o.Controls = controls

	go client.Run(ctx)
	go o.Run(ctx)
	go controls.Run(ctx)
	go logStatus(ctx, o.Status())

	if err := client.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("initial connect failed, retrying in background")
	}

	r := router.SetupRouter(cfg, o, client, controls)
	addr := fmt.Sprintf(":%d", cfg.StatusPort)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Str("room", cfg.RoomID).Msg("Meet client started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("status server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	o.Leave()
	client.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Client exited gracefully")
}

// logStatus is one of the independent status observers: it just mirrors
// orchestrator events into the log.
func logStatus(ctx context.Context, events <-chan core.StatusEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			switch e := ev.(type) {
			case core.SessionOpened:
				log.Info().Str("peer", string(e.UserID)).Msg("peer session opened")
			case core.SessionClosed:
				log.Info().Str("peer", string(e.UserID)).Msg("peer session closed")
			case core.SessionStateChanged:
				log.Info().Str("peer", string(e.UserID)).Str("state", string(e.State)).Msg("peer state")
			case core.LocalCandidateFound:
				log.Debug().Str("peer", string(e.UserID)).Int("count", e.Count).Msg("local candidate")
			case core.RemoteCandidateApplied:
				log.Debug().Str("peer", string(e.UserID)).Int("count", e.Count).Msg("remote candidate")
			case core.SessionError:
				log.Error().Err(e.Err).Str("peer", string(e.UserID)).Msg("session error")
			case core.FatalError:
				log.Fatal().Err(e.Err).Msg("media engine failure")
			}
		}
	}
}
