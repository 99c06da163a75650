/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the yield projection HTTP server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env files and parse command-line flags
  2. Load config (TOML file, then YIELD_* environment overrides)
  3. Set up structured logging
  4. Wire providers, SQLite cache and simulator (bootstrap)
  5. Start the cache prefetcher
  6. Configure HTTP router and start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  TOML config file (default: yield.toml, optional)
  -port    HTTP server port, overrides server.port
  -db      SQLite database path, overrides server.db_path
           Use ":memory:" for in-memory database
  -offline Use the computed calendar and the fixed daily rate

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the prefetcher
  4. Close database connection

EXAMPLES:
  # Run with file database
  ./server -db="./data/yield.db"

  # Run without network access
  ./server -offline

  # Run on different port
  YIELD_PORT=3000 ./server

SEE ALSO:
  - config/config.go: Settings and environment variables
  - bootstrap/bootstrap.go: Provider chain
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/yield-engine/api"
	"github.com/warp/yield-engine/bootstrap"
	"github.com/warp/yield-engine/config"
	"github.com/warp/yield-engine/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadEnv(); err != nil {
		return err
	}

	// Flags
	configPath := flag.String("config", "yield.toml", "TOML config file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	offline := flag.Bool("offline", false, "Use the computed calendar and the fixed daily rate")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Server.DBPath = *dbPath
	}
	if *offline {
		cfg.Providers.Offline = true
	}

	closeLog, err := logger.Setup(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Path:   cfg.Log.Path,
	})
	if err != nil {
		return fmt.Errorf("setting up logger: %w", err)
	}
	defer closeLog()
	log := logger.L()

	app, err := bootstrap.New(cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	handler := api.NewHandler(app)
	handler.Prefetcher = api.NewPrefetcher(app, cfg.Server.PrefetchInterval.Duration)
	handler.Prefetcher.Start()
	defer handler.Prefetcher.Stop()

	router := api.NewRouter(handler, cfg.Server.CORSOrigins)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serveErr := make(chan error, 1)
	go func() {
		log.Info("server.starting",
			"addr", server.Addr,
			"source", app.Source,
			"db", cfg.Server.DBPath,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Info("server.shutting_down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server.stopped", slog.Duration("uptime", time.Since(logger.InitTime())))
	return nil
}
