package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mfagundes/storefront/internal/bootstrap"
	"github.com/mfagundes/storefront/internal/cleanup"
	"github.com/mfagundes/storefront/internal/gateway"
	"github.com/mfagundes/storefront/internal/repository/postgres"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, "storefront-worker", "storefront_worker")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	txManager := postgres.NewTxManager(app.Pool)
	cleanupRepo := postgres.NewCleanupRepository(app.Pool, txManager)
	idempotencyRepo := postgres.NewIdempotencyRepository(app.Pool)

	gw := app.Config.Gateways
	cartGW := gateway.NewHTTPCartGateway(gw.CartURL, gw.RequestTimeout)

	worker := cleanup.NewWorker(
		cleanupRepo,
		cartGW,
		app.Metrics,
		app.Logger,
		app.Config.Worker.PollInterval,
	)
	worker.SetBatchSize(app.Config.Worker.BatchSize)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Cart cleanup worker.
	g.Go(func() error {
		return worker.Run(gCtx)
	})

	// 2. Expired idempotency key janitor.
	g.Go(func() error {
		return runIdempotencyJanitor(gCtx, app, idempotencyRepo)
	})

	// 3. Wait for shutdown signal.
	g.Go(func() error {
		select {
		case <-gCtx.Done():
			return gCtx.Err()
		case <-quit:
			app.Logger.Info().Msg("Shutting down worker...")
			cancel()
			return nil
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		app.Logger.Error().Err(err).Msg("Worker error")
	}
	app.Logger.Info().Msg("Worker exited")
}

func runIdempotencyJanitor(ctx context.Context, app *bootstrap.App, repo *postgres.IdempotencyRepository) error {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		removed, err := repo.Cleanup(ctx)
		if err != nil {
			app.Logger.Error().Err(err).Msg("Failed to purge expired idempotency keys")
			continue
		}
		if removed > 0 {
			app.Logger.Info().Int64("removed", removed).Msg("Purged expired idempotency keys")
		}
	}
}
