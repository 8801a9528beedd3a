package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	checkoutApp "github.com/mfagundes/storefront/internal/application/checkout"
	recommendationApp "github.com/mfagundes/storefront/internal/application/recommendation"
	shippingApp "github.com/mfagundes/storefront/internal/application/shipping"
	"github.com/mfagundes/storefront/internal/bootstrap"
	"github.com/mfagundes/storefront/internal/cleanup"
	"github.com/mfagundes/storefront/internal/controller"
	"github.com/mfagundes/storefront/internal/gateway"
	infraRedis "github.com/mfagundes/storefront/internal/infrastructure/redis"
	"github.com/mfagundes/storefront/internal/repository/postgres"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, "storefront-api", "storefront")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// --- Repositories ---
	txManager := postgres.NewTxManager(app.Pool)
	orderRepo := postgres.NewOrderRepository(app.Pool, txManager)
	cleanupRepo := postgres.NewCleanupRepository(app.Pool, txManager)
	idempotencyRepo := postgres.NewIdempotencyRepository(app.Pool)

	// --- Downstream gateways ---
	gw := app.Config.Gateways
	cartGW := gateway.NewHTTPCartGateway(gw.CartURL, gw.RequestTimeout)
	paymentGW := gateway.NewHTTPPaymentGateway(gw.PaymentURL, gw.RequestTimeout)
	catalogGW := gateway.NewHTTPCatalogGateway(gw.CatalogURL, gw.RequestTimeout)

	// --- Application services ---
	locker := infraRedis.NewCheckoutLocker(app.Redis, app.Config.Checkout.LockTTL, app.Logger)
	cleanupQueue := cleanup.NewQueue(cleanupRepo, app.Metrics, app.Logger)
	checkoutUC := checkoutApp.NewUseCase(
		cartGW, paymentGW, orderRepo, locker, cleanupQueue,
		app.Logger, app.Config.Checkout.PaymentTimeout,
	)
	shippingUC := shippingApp.NewQuoteUseCase()
	recommendationUC := recommendationApp.NewSuggestUseCase(orderRepo, catalogGW, app.Logger)

	// --- Build router ---
	router := controller.NewRouter(controller.RouterDeps{
		Pool:             app.Pool,
		RedisClient:      app.Redis,
		CheckoutUC:       checkoutUC,
		OrderRepo:        orderRepo,
		ShippingUC:       shippingUC,
		RecommendationUC: recommendationUC,
		IdempotencyRepo:  idempotencyRepo,
		Metrics:          app.Metrics,
		CORSConfig:       app.Config.Server.CORS,
	})

	// --- HTTP server ---
	addr := fmt.Sprintf(":%d", app.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
		IdleTimeout:  app.Config.Server.IdleTimeout,
	}

	go func() {
		app.Logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Logger.Info().Msg("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	app.Logger.Info().Msg("Server exited")
}
