package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/osa911/contactrelay/internal/config"
	"github.com/osa911/contactrelay/internal/logging"
	"github.com/osa911/contactrelay/internal/server"
	"github.com/osa911/contactrelay/internal/telemetry"
	"github.com/osa911/contactrelay/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the contact relay HTTP server",
	Long: `Run the contact relay. Configuration is read from the environment and
from .env.<ENV> or .env in the working directory.

Without RESEND_API_KEY (outside production) emails are written to the log
instead of being sent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logging.Configure(cfg.Logging())
		logger := logging.GetLogger()
		defer logger.Close()

		logger.Info("Starting contact relay %s in %s mode", version.Info(), cfg.Environment)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
			Endpoint:       cfg.OTLPEndpoint,
			ServiceName:    cfg.ServiceName,
			ServiceVersion: version.Version,
			Environment:    cfg.Environment,
		})
		if err != nil {
			logger.Error("Failed to initialize tracing: %v", err)
			return err
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(flushCtx); err != nil {
				logger.Warn("Failed to flush traces: %v", err)
			}
		}()

		sender, err := server.NewSender(cfg, logger)
		if err != nil {
			logger.Error("Failed to create email sender: %v", err)
			return err
		}

		srv, err := server.NewServer(cfg, logger, server.Dependencies{Sender: sender})
		if err != nil {
			logger.Error("Failed to create server: %v", err)
			return err
		}

		if err := srv.Run(ctx); err != nil {
			logger.Error("Server stopped with error: %v", err)
			return err
		}
		return nil
	},
}
