// dva-server serves the displacement volume analyzer workspace over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timgluz/dva/api"
	"github.com/timgluz/dva/config"
	"github.com/timgluz/dva/sample"
	"github.com/timgluz/dva/storage"
	"github.com/timgluz/dva/storage/backend"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "dva-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := cfg.Logger("dva-server")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := backend.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("Failed to close repository", "error", err)
		}
	}()

	var seed []sample.Sample
	if cfg.App.SeedSamples {
		seed = sample.DefaultSamples()
	}

	// a corrupt snapshot stops the server and stays untouched for inspection
	workspace := storage.NewWorkspace()
	seeded, err := workspace.LoadOrSeed(ctx, repo, seed)
	if err != nil {
		return fmt.Errorf("load workspace: %w", err)
	}
	logger.Info("Workspace ready",
		"seeded", seeded,
		"projects", workspace.Projects.Len(),
		"samples", workspace.Samples.Len(),
		"nextID", workspace.Projects.NextID(),
	)

	server := api.NewServer(workspace, repo, logger)
	if !server.IsReady() {
		return fmt.Errorf("server components are not ready")
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", cfg.Server.Addr, "driver", cfg.Storage.Driver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
