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

	"github.com/iwvelando/rent-vs-buy/internal/server"
	"github.com/iwvelando/rent-vs-buy/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var (
		configLocation string
		address        string
		logLevel       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the comparison JSON API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, configLocation, address, logLevel)
		},
	}

	cmd.Flags().StringVar(&configLocation, "config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVarP(&address, "address", "a", "", "listen address override, e.g. :8080")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	return cmd
}

func runServe(ctx context.Context, configLocation, address, logLevel string) error {
	cfg, err := server.LoadConfig(configLocation)
	if err != nil {
		return fmt.Errorf("failed to load server configuration at %s: %w", configLocation, err)
	}
	if address != "" {
		cfg.Address = address
	}

	logger, err := initializeLogger(cfg.Logging, logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	srv := server.NewServer(cfg, server.NewHandler(logger, cfg.UploadSizeBytes(), version))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server",
			zap.String("op", "main.serve"),
			zap.String("address", cfg.Address),
			zap.Int64("max_upload_bytes", cfg.UploadSizeBytes()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			logger.Error("HTTP server failed",
				zap.String("op", "main.serve"),
				zap.Error(err),
			)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server", zap.String("op", "main.serve"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}
	return nil
}
