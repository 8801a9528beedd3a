package controller

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/mfagundes/storefront/internal/application/checkout"
	"github.com/mfagundes/storefront/internal/application/recommendation"
	"github.com/mfagundes/storefront/internal/application/shipping"
	"github.com/mfagundes/storefront/internal/domain/order"
	"github.com/mfagundes/storefront/internal/infrastructure/config"
	"github.com/mfagundes/storefront/internal/infrastructure/observability"
	customMW "github.com/mfagundes/storefront/internal/middleware"
	"github.com/mfagundes/storefront/internal/repository/postgres"
)

type RouterDeps struct {
	Pool             *pgxpool.Pool
	RedisClient      *redis.Client
	CheckoutUC       *checkout.UseCase
	OrderRepo        order.Repository
	ShippingUC       *shipping.QuoteUseCase
	RecommendationUC *recommendation.SuggestUseCase
	IdempotencyRepo  *postgres.IdempotencyRepository
	Metrics          *observability.Metrics
	CORSConfig       config.CORSConfig
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(customMW.Tracing())
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSConfig.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link", "X-Idempotency-Replayed"},
		AllowCredentials: deps.CORSConfig.AllowCredentials,
		MaxAge:           300,
	}))
	r.Use(customMW.SecurityHeaders())
	r.Use(customMW.Metrics(deps.Metrics))

	healthH := NewHealthController(deps.Pool, deps.RedisClient)
	checkoutH := NewCheckoutController(deps.CheckoutUC, deps.Metrics)
	orderH := NewOrderController(deps.OrderRepo)
	shippingH := NewShippingController(deps.ShippingUC)
	recommendationH := NewRecommendationController(deps.RecommendationUC)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(customMW.RateLimit(120))

		// Idempotency middleware for mutating endpoints.
		idempotencyMW := customMW.Idempotency(deps.IdempotencyRepo)

		r.With(idempotencyMW).Post("/checkout", checkoutH.Checkout)

		r.Get("/orders/{id}", orderH.GetOrder)
		r.Get("/orders", orderH.ListOrders)

		r.Get("/shipping/quote", shippingH.Quote)
		r.Get("/recommendations/{user_id}", recommendationH.Suggest)
	})

	return r
}
