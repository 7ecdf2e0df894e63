package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"storybook-server/internal/config"
	"storybook-server/internal/storage"
	"storybook-server/internal/storybook"
)

func main() {
	// A missing .env file is fine; the environment itself still applies.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env file: %v\n", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.Info("Using storage directory", "path", cfg.DataDir)

	store, err := storage.NewJSONStore(cfg.DataDir, logger)
	if err != nil {
		logger.Error("Failed to initialize document store", "error", err)
		os.Exit(1)
	}

	app := &application{
		logger:         logger,
		store:          storybook.NewStore(store, logger, cfg.MaxUploadBytes),
		maxUploadBytes: cfg.MaxUploadBytes,
		corsOrigins:    cfg.CORSOrigins,
	}

	addr := cfg.Addr()
	logger.Info("Starting storybook server", "address", fmt.Sprintf("http://localhost%s", addr))

	if err := http.ListenAndServe(addr, app.routes()); err != nil {
		logger.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}
