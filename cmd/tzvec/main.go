package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/basekick-labs/tzvec/internal/api"
	"github.com/basekick-labs/tzvec/internal/config"
	"github.com/basekick-labs/tzvec/internal/logger"
)

// Version is set at build time
var Version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("version", Version).Msg("Starting tzvec...")

	server := api.NewServer(&api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:    time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:     time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}, log.Logger)

	server.RegisterRoutes()

	app := server.GetApp()
	if cfg.Auth.Enabled {
		app.Use("/api/v1", api.APIKeyMiddleware(cfg.Auth.APIKeyHash, log.Logger))
		log.Info().Msg("API key authentication enabled")
	}

	localizeHandler := api.NewLocalizeHandler(log.Logger, cfg.Localize.Workers, cfg.Localize.MaxBatchSize)
	localizeHandler.RegisterRoutes(app)

	if err := server.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}

	log.Info().
		Int("port", cfg.Server.Port).
		Int("workers", cfg.Localize.Workers).
		Int("max_batch_size", cfg.Localize.MaxBatchSize).
		Msg("tzvec ready")

	server.WaitForShutdown(30 * time.Second)
}
