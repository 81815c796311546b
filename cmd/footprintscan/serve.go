package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/anityu45/footprintscan/internal/aggregate"
	"github.com/anityu45/footprintscan/internal/api"
	"github.com/anityu45/footprintscan/internal/config"
	"github.com/anityu45/footprintscan/internal/log"
	"github.com/anityu45/footprintscan/internal/probe"
	"github.com/anityu45/footprintscan/internal/scan"
	"github.com/anityu45/footprintscan/internal/store"
	"github.com/anityu45/footprintscan/internal/worker"
)

// shutdownGrace is how long in-flight scans and requests get to finish
// after a shutdown signal.
const shutdownGrace = 30 * time.Second

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scan API server",
		Long: `Serve starts the HTTP API: scans are submitted with POST /api/scan,
executed asynchronously by a worker pool, and polled with
GET /api/scan/{id}.

Examples:
  # Listen on the default address
  footprintscan serve

  # Custom bind address and worker count
  footprintscan serve --addr :9090 --workers 8`,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", config.DefaultListenAddr, "Bind address for the API server")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkerCount, "Number of scan workers")
	cmd.Flags().IntP("queue", "q", config.DefaultQueueSize, "Submission queue capacity")
	cmd.Flags().String("db-dir", "", "Directory for the scan database (default: XDG data dir)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .footprintscan in current dir or XDG config dir)")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildServeConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(cfg.DBDir, store.DefaultOptions())
	if err != nil {
		return fmt.Errorf("open scan store: %w", err)
	}
	defer st.Close()

	registry := probe.NewRegistry(cfg, &http.Client{Timeout: cfg.ProbeTimeout})
	coordinator := scan.NewCoordinator(st, registry, aggregate.New(cfg.Policy), scan.WithLogger(logger))

	pool := worker.NewPool(coordinator, cfg.WorkerCount, cfg.QueueSize,
		worker.WithLogger(logger),
		worker.WithRetry(cfg.MaxRetries, cfg.RetryDelay))
	pool.Start(ctx)

	handler := api.NewHandler(st, pool, logger)
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.NewRouter(handler, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.ListenAddr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	// Stop accepting requests first, then drain the queued scans.
	graceCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(graceCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := pool.Shutdown(graceCtx); err != nil {
		logger.Error("worker shutdown", "error", err)
	}
	return nil
}

// buildServeConfig creates a Config from the serve command flags and
// the optional configuration file.
func buildServeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if path := config.FindConfigFile(configPath); path != "" {
		if err := config.LoadConfigFile(path, cfg); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if cmd.Flags().Changed("addr") {
		cfg.ListenAddr, _ = cmd.Flags().GetString("addr")
	}
	if cmd.Flags().Changed("workers") {
		cfg.WorkerCount, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("queue") {
		cfg.QueueSize, _ = cmd.Flags().GetInt("queue")
	}
	if dbDir, _ := cmd.Flags().GetString("db-dir"); dbDir != "" {
		cfg.DBDir = dbDir
	}
	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}
