package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/LuvellCode/WebRTC-Madness/internal/adapters/http"
	sig "github.com/LuvellCode/WebRTC-Madness/internal/adapters/signal"
	"github.com/LuvellCode/WebRTC-Madness/internal/app"
	"github.com/LuvellCode/WebRTC-Madness/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Err(err).Str("log_level", cfg.LogLevel).Msg("unknown log level, keeping info")
	} else {
		zerolog.SetGlobalLevel(level)
	}

	action, err := app.ParseBackpressureAction(cfg.Backpressure)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid backpressure policy")
	}

	sessions := app.NewRegistry()
	relay := app.NewRelay(sessions, app.SimplePolicy{Action: action}, cfg.BroadcastWorkers)
	dispatcher := &sig.Dispatcher{
		Sessions:        sessions,
		Handlers:        sig.NewSignalingHandlers(relay, cfg.LogExecution),
		Limiter:         sig.NewRateLimiter(cfg.RateLimit, cfg.RateInterval),
		StrictHandshake: cfg.StrictHandshake,
	}
	log.Info().Str("module", "main").Interface("types", dispatcher.Handlers.Types()).Bool("strict_handshake", cfg.StrictHandshake).Msg("handler table ready")

	ctl := sig.NewSignalWSController(sessions, dispatcher, sig.Options{
		ReadLimit:  cfg.ReadLimit,
		PingPeriod: cfg.PingPeriod,
		PongWait:   cfg.PongWait,
		WriteWait:  cfg.WriteWait,
		SendQueue:  cfg.SendQueue,
	})

	r := router.SetupRouter(ctx, cfg, ctl, sessions)
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("signaling", cfg.SignalingURL()).Bool("tls", cfg.TLSEnabled()).Msg("signaling server started")
		var err error
		if cfg.TLSEnabled() {
			err = srv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	ctl.CloseAll()
	log.Info().Msg("Server exited gracefully")
}
