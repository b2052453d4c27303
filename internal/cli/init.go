// Package cli provides common CLI initialization utilities shared by the
// subcommands: logging, .env loading, configuration and opening a session.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tindahan/internal/backend"
	"tindahan/internal/config"
	"tindahan/internal/log"
	"tindahan/internal/persist"
	"tindahan/internal/services"
)

// SetupLogger initializes structured logging at level and sets it as the
// default logger. An unknown level falls back to info.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	if lvl, err := log.ParseLevel(level); err == nil {
		cfg.Level = lvl
	}
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the given .env files, or .env when none is named.
// A missing file is not an error.
func LoadEnvFile(files ...string) {
	_ = godotenv.Load(files...)
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig(logger *log.Logger) (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		return nil, err
	}
	return cfg, nil
}

// OpenSession builds the configured store and publishers and loads the
// saved state. Close the session to release both.
func OpenSession(ctx context.Context, cfg *config.Config, logger *log.Logger) (*services.Session, error) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}

	storeLogger := logger.WithComponent(log.ComponentBackend).Slog()
	res, err := backend.NewFactory(storeLogger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", backendCfg.Type, err)
	}

	publishers := backend.CreatePublishers(backend.PublisherConfigFromApp(cfg), storeLogger)

	adapter := persist.NewAdapter(res.Store, logger.WithComponent(log.ComponentStorage).Slog())
	session, err := services.Open(ctx, adapter, services.Options{
		DefaultSheetIndex: cfg.DefaultSheetIndex,
		Publisher:         publishers,
		Logger:            logger,
		StoreTimeout:      cfg.StoreTimeout,
	})
	if err != nil {
		publishers.Close()
		if res.Cleanup != nil {
			res.Cleanup()
		}
		return nil, err
	}
	return session, nil
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals or when
// parent ends, and a channel that signals when cleanup is complete.
func GracefulShutdown(parent context.Context, logger *slog.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup()
			}
			close(finished)
		}()

		cancel()

		select {
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		case <-finished:
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
