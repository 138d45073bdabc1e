// Package main implements the reversi server: a RESTful game API with
// optional SQLite persistence of game checkpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reversi/cmd/reversi-server/cli"
	"reversi/internal/service"
	"reversi/internal/storage"
	"reversi/internal/transport/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	gracefulShutdownTimeout = time.Second * 5
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Check for CLI database commands
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			log.Fatal().Err(err).Msg("CLI error")
		}
		os.Exit(0)
	}

	var (
		apiHost     = flag.String("api-host", "localhost", "API server host")
		apiPort     = flag.Int("api-port", 8080, "API server port")
		dev         = flag.Bool("dev", false, "Development mode (relaxed rate limits, access log)")
		storagePath = flag.String("storage-path", "", "Path to SQLite database file (disables persistence if empty)")
		pidPath     = flag.String("pid", "", "Optional path to write PID file")
		pidLock     = flag.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")
		logLevel    = flag.String("log-level", "info", "Log level: debug, info, warn, error")
		rateLimit   = flag.Int("rate-limit", 0, "Requests per second per IP, 0 for the default (10, 20 in dev mode), -1 disables")
	)
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal().Err(err).Str("level", *logLevel).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	if *pidLock && *pidPath == "" {
		log.Fatal().Msg("-pid-lock flag requires the -pid flag to be set")
	}

	if *pidPath != "" {
		cleanup, err := managePIDFile(*pidPath, *pidLock)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to manage PID file")
		}
		defer cleanup()
		log.Info().Str("path", *pidPath).Bool("lock", *pidLock).Msg("PID file created")
	}

	// 1. Initialize Storage (optional)
	var store *storage.Store
	if *storagePath != "" {
		log.Info().Str("path", *storagePath).Msg("initializing persistent storage")
		store, err = storage.NewStore(*storagePath, *dev)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize storage")
		}
		if err := store.InitDB(); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize schema")
		}
	} else {
		log.Info().Msg("persistent storage disabled (use -storage-path to enable)")
	}

	// 2. Initialize the Service, restoring stored games
	svc, err := service.New(store)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize service")
	}
	if n, err := svc.Restore(); err != nil {
		log.Error().Err(err).Msg("failed to restore games")
	} else if n > 0 {
		log.Info().Int("games", n).Msg("restored games from storage")
	}

	// 3. Initialize the Fiber App
	limit := *rateLimit
	switch {
	case limit < 0:
		limit = 0
	case limit == 0 && *dev:
		limit = 20
	case limit == 0:
		limit = 10
	}
	app := http.NewFiberApp(svc, http.Config{
		DevMode:   *dev,
		RateLimit: limit,
		AccessLog: *dev,
	})

	apiAddr := fmt.Sprintf("%s:%d", *apiHost, *apiPort)

	go func() {
		log.Info().
			Str("addr", "http://"+apiAddr).
			Int("rate_limit", limit).
			Bool("storage", store != nil).
			Msg("reversi API server starting")
		log.Info().Msgf("API Endpoints: http://%s/api/v1/games", apiAddr)
		log.Info().Msgf("Health: http://%s/health", apiAddr)

		if err := app.Listen(apiAddr); err != nil {
			log.Error().Err(err).Msg("API server listen error")
		}
	}()

	// Wait for an interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	// Long-polls would otherwise hold the listener open until WaitTimeout
	svc.ReleaseWaiters()

	if err = app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	if err = svc.Shutdown(); err != nil {
		log.Error().Err(err).Msg("service shutdown error")
	}

	log.Info().Msg("server exited")
}
