package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirasaad/paycode/infra/initializer"
	"github.com/amirasaad/paycode/pkg/app"
	"github.com/amirasaad/paycode/pkg/config"
	"github.com/amirasaad/paycode/webapi"
	log "github.com/charmbracelet/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	// Initialize all dependencies
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	logger := deps.Logger

	application := app.New(deps, cfg)
	defer func() {
		if err := application.Close(); err != nil {
			logger.Error("Failed to release resources", "error", err)
		}
	}()

	return serve(ctx, application, logger)
}

// serve runs the price poller and the HTTP server until ctx is done.
func serve(ctx context.Context, application *app.App, logger *slog.Logger) error {
	cfg := application.Config
	fiberApp := webapi.SetupApp(application)

	pollCtx, cancelPoll := context.WithCancel(ctx)
	defer cancelPoll()
	if application.Deps.Poller != nil {
		go application.Deps.Poller.Run(pollCtx)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Server.Scheme,
	)

	errCh := make(chan error, 1)
	go func() { errCh <- fiberApp.Listen(addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	if err := fiberApp.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
