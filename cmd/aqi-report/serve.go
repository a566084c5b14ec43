package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/purpleair-aqi-service/internal/adapter/http"
	"github.com/couchcryptid/purpleair-aqi-service/internal/observability"
	"github.com/couchcryptid/purpleair-aqi-service/internal/report"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the AQI report over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig(observability.NewLogger)
		if err != nil {
			return err
		}
		metrics := observability.NewMetrics()

		p, closePublisher := buildPipeline(cfg, report.HTML{}, logger, metrics)
		defer closePublisher()

		srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, cfg.AllowedOrigins, logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case <-ctx.Done():
		case err := <-errCh:
			logger.Error("http server error", "error", err)
			return err
		}
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
