package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bleupos/sales-service/api/controllers"
	discountcontrollers "github.com/bleupos/sales-service/api/controllers/discounts"
	ordercontrollers "github.com/bleupos/sales-service/api/controllers/orders"
	salecontrollers "github.com/bleupos/sales-service/api/controllers/sales"
	"github.com/bleupos/sales-service/api/middleware"
	"github.com/bleupos/sales-service/internal/discounts"
	"github.com/bleupos/sales-service/internal/identity"
	"github.com/bleupos/sales-service/internal/orders"
	"github.com/bleupos/sales-service/internal/sales"
	"github.com/bleupos/sales-service/pkg/config"
	"github.com/bleupos/sales-service/pkg/db"
	"github.com/bleupos/sales-service/pkg/logger"
	"github.com/bleupos/sales-service/pkg/redis"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config           *config.Config
	Logger           *logger.Logger
	DB               db.Pinger
	Redis            redis.Pinger
	IdempotencyStore redis.IdempotencyStore
	Verifier         identity.Verifier
	Sales            sales.Service
	Orders           orders.Service
	Discounts        discounts.Service
	// Gatherer backs /metrics; nil falls back to the default registry.
	Gatherer prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	idempotent := middleware.Idempotency(deps.IdempotencyStore, cfg.Sales.IdempotencyTTL, logg)

	r.Route("/auth", func(r chi.Router) {
		r.Use(middleware.Auth(deps.Verifier, logg))

		r.With(idempotent).Post("/sales", salecontrollers.Create(deps.Sales, logg))

		r.Route("/purchase_orders", func(r chi.Router) {
			r.With(idempotent).Post("/online", salecontrollers.SaveExternal(deps.Sales, logg))
			r.Get("/status/processing", ordercontrollers.ListProcessing(deps.Orders, logg))
			r.Get("/all", ordercontrollers.ListAll(deps.Orders, logg))
			r.Get("/all/export", ordercontrollers.Export(deps.Orders, logg))
			r.Patch("/{orderId}/status", ordercontrollers.UpdateStatus(deps.Orders, logg))
		})

		r.Get("/discounts", discountcontrollers.List(deps.Discounts, logg))
	})

	return r
}
