package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mrsingh-rishi/sign-captions/api"
	"github.com/mrsingh-rishi/sign-captions/config"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	server, err := api.NewServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}
	app := server.App()

	res := server.Resolver.Resolve(context.Background())
	if !res.Available {
		log.Warn().Str("configured", res.Configured).Msg("ffmpeg not available; /api/transcribe will fail until it is installed or FFMPEG_PATH is set")
	}
	if !cfg.HasCredential() {
		log.Info().Msg("OPENAI_API_KEY not set, transcripts will be placeholder text")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("server listening")
		if err := app.Listen(cfg.Addr); err != nil {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown server")
	}
}

func setupLogger(cfg *config.Config) {
	zerolog.SetGlobalLevel(cfg.Level())
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
