package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/arbor/internal/config"
	httpAdapter "github.com/aretw0/arbor/pkg/adapters/http"
)

// ErrNoPlatformConfigured is returned by RunServe when no platform token is set.
var ErrNoPlatformConfigured = errors.New("no platform configured: set facebook.page_token or telegram.token")

// NewServer builds the webhook HTTP server for a running bot.
func NewServer(cfg *config.Config, c *Components, logger *slog.Logger) *http.Server {
	handler := httpAdapter.NewHandler(c.Bot,
		httpAdapter.WithLogger(logger),
		httpAdapter.WithVerifyToken(cfg.Facebook.VerifyToken),
		httpAdapter.WithGatherer(c.Registry),
		httpAdapter.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
	)
	return &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handler,
	}
}

// RunServe serves the demo bot until ctx is cancelled, then shuts down gracefully.
func RunServe(ctx *SignalContext, cfg *config.Config, logger *slog.Logger) error {
	platforms, err := PlatformOptions(cfg)
	if err != nil {
		return err
	}
	if len(platforms) == 0 {
		return ErrNoPlatformConfigured
	}

	components, err := BuildBot(ctx, cfg, logger, platforms...)
	if err != nil {
		return err
	}
	defer func() {
		if err := components.Close(context.Background()); err != nil {
			logger.Warn("Failed to close bot", "err", err)
		}
	}()

	srv := NewServer(cfg, components, logger)

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting arbor server", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("Start shutdown", "signal", ctx.Signal())

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", cfg.Server.ShutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		logger.Info("Arbor server stopped gracefully")
		return nil
	}
}
