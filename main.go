package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"cyberholdem/appconfig"
	"cyberholdem/server"
	"cyberholdem/session"
)

func main() {
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()

	cfg, err := appconfig.LoadAppConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	sessionCfg := sessionConfig(cfg)
	manager := session.NewManager(sessionCfg, log)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.NewServer(manager, sessionCfg, log).Handler(),
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}

func sessionConfig(cfg *appconfig.AppConfig) session.Config {
	return session.Config{
		SmallBlind:         cfg.SmallBlind,
		BigBlind:           cfg.BigBlind,
		StartingStack:      cfg.StartingStack,
		MaxRaisesPerStreet: cfg.MaxRaisesPerStreet,
		DefaultEngine:      cfg.DefaultEngine,
		OllamaHost:         cfg.OllamaHost,
		OllamaModel:        cfg.OllamaModel,
		DashScopeURL:       cfg.DashScopeURL,
		DashScopeKey:       cfg.DashScopeKey,
		DashScopeModel:     cfg.DashScopeModel,
		LLMTimeout:         cfg.LLMTimeout,
		ThinkDelayMin:      cfg.ThinkDelayMin,
		ThinkDelayMax:      cfg.ThinkDelayMax,
		RandomSeed:         cfg.RandomSeed,
	}
}
