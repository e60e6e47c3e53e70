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

	"github.com/amirasaad/ledgersync/infra/initializer"
	"github.com/amirasaad/ledgersync/pkg/app"
	"github.com/amirasaad/ledgersync/pkg/config"
	"github.com/amirasaad/ledgersync/webapi"
	log "github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	rt, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer func() {
		if err := rt.Close(); err != nil {
			rt.Logger.Warn("error while closing resources", "error", err)
		}
	}()
	logger := rt.Logger

	application, err := app.New(rt.Deps, cfg)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	consumer := rt.NewConsumer(cfg, application.Pump)
	fiberApp := webapi.SetupApp(application)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return consumer.Run(ctx) })
	g.Go(func() error { return application.Sweeper.Run(ctx) })

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	g.Go(func() error {
		logger.Info("Starting server",
			"env", cfg.Env,
			"address", addr,
			"scheme", cfg.Server.Scheme,
		)
		return fiberApp.Listen(addr)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		return fiberApp.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("stopped with error", "error", err)
		return err
	}
	return nil
}
