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

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	chiTransport "github.com/kailas-cloud/patentsim/internal/transport/chi"
	"github.com/kailas-cloud/patentsim/internal/version"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP API (optionally ingesting the configured patents first)",
		Action: serveCommand,
	}
}

func serveCommand(c *cli.Context) error {
	st := stateFrom(c)
	cfg, logger := st.cfg, st.logger

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting patentsim API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", st.env),
		zap.Int("http_port", cfg.HTTP.Port),
	)

	svc, err := buildServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	if cfg.Ingest.OnStartup {
		numbers, err := configuredNumbers(cfg, "", nil)
		if err != nil {
			return err
		}
		summary, err := svc.ingest.Ingest(ctx, numbers)
		if err != nil {
			return fmt.Errorf("startup ingest: %w", err)
		}
		logger.Info("Startup ingest finished",
			zap.Int("inserted", summary.Inserted),
			zap.Int("duplicates", summary.Duplicates),
			zap.Int("failed", summary.Failed),
		)
	}

	server := chiTransport.NewServer(svc.similarity, svc.patents, svc.health, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           chiTransport.NewRouter(server, logger),
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}
