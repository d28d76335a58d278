package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	engine "github.com/Kidkender/dating-ai-engine"
	"github.com/Kidkender/dating-ai-engine/internal/config"
	"github.com/Kidkender/dating-ai-engine/internal/log"
)

func serveCmd() *cobra.Command {
	var (
		addr    string
		envFile string
		dbURL   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. CLI flags

Environment variables:
  HOST, PORT                 Listen address (default: 0.0.0.0:8080)
  DB_URL                     Database URL (sqlite:///path or postgres://...)
  LOG_LEVEL                  DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT                 pretty, json (default: pretty)

  EMBEDDING_DIM              Embedding vector length (default: 512)
  MIN_FACE_CONFIDENCE        Detection confidence floor (default: 0.8)
  SIMILARITY_THRESHOLD       Minimum recommendation score (default: 0.5)
  PROFILES_PER_PHASE         Choice quota per phase (default: 20)
  NEGATIVE_WEIGHT            Rejected-image weight factor (default: 1.0)
  PHASE_WEIGHTS              Per-phase weights, e.g. "1,1.5,2"
  RECOMMEND_LIMIT            Default top-k (default: 50)
  WORKER_COUNT               Embedding worker pool size (default: 4)

  DETECTOR_BASE_URL          Face detection sidecar URL
  DETECTOR_TIMEOUT           Request timeout (default: 30s)
  DETECTOR_MAX_RETRIES       Retry attempts on transient failures (default: 3)
  DETECTOR_CACHE_DIR         On-disk response cache directory`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(addr, envFile, dbURL)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Address to listen on (overrides HOST/PORT)")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&dbURL, "db-url", "", "Database URL (overrides DB_URL env var)")

	return cmd
}

func runServe(addr, envFile, dbURL string) error {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if dbURL != "" {
		cfg = cfg.Apply(config.WithDBURL(dbURL))
	}
	if addr == "" {
		addr = cfg.Addr()
	}

	logger := log.NewLogger(cfg)
	logger.SetDefault()
	slogger := logger.Slog()
	slogger.LogAttrs(context.Background(), slog.LevelInfo, "configuration loaded", cfg.LogAttrs()...)

	client, err := engine.New(
		engine.WithConfig(cfg),
		engine.WithLogger(slogger),
	)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	server := client.Server(addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slogger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	}
}
