package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bleupos/sales-service/api/routes"
	"github.com/bleupos/sales-service/internal/discounts"
	"github.com/bleupos/sales-service/internal/identity"
	"github.com/bleupos/sales-service/internal/inventory"
	"github.com/bleupos/sales-service/internal/orders"
	"github.com/bleupos/sales-service/internal/pricing"
	"github.com/bleupos/sales-service/internal/sales"
	"github.com/bleupos/sales-service/pkg/config"
	"github.com/bleupos/sales-service/pkg/db"
	"github.com/bleupos/sales-service/pkg/enums"
	"github.com/bleupos/sales-service/pkg/env"
	"github.com/bleupos/sales-service/pkg/instance"
	"github.com/bleupos/sales-service/pkg/logger"
	"github.com/bleupos/sales-service/pkg/metrics"
	"github.com/bleupos/sales-service/pkg/migrate"
	"github.com/bleupos/sales-service/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	identityClient, err := identity.NewClient(
		cfg.Identity.BaseURL,
		identity.WithMePath(cfg.Identity.MePath),
		identity.WithTimeout(cfg.Identity.Timeout),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create identity client", err)
		os.Exit(1)
	}
	verifier, err := identity.NewCachingVerifier(identityClient, redisClient, cfg.Identity.CacheTTL, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create identity cache", err)
		os.Exit(1)
	}

	salesMetrics := metrics.NewSalesMetrics(prometheus.DefaultRegisterer)

	deductors, err := inventoryDeductors(cfg.Inventory)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory clients", err)
		os.Exit(1)
	}
	dispatcher, err := inventory.NewDispatcher(inventory.DispatcherParams{
		Logger:    logg,
		Deductors: deductors,
		Failures:  inventory.NewFailureRepository(dbClient.DB()),
		Metrics:   salesMetrics,
		Timeout:   cfg.Inventory.Timeout,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory dispatcher", err)
		os.Exit(1)
	}

	catalog, err := pricing.ParseAddonCatalog(cfg.Sales.AddonPrices)
	if err != nil {
		logg.Error(context.Background(), "failed to parse addon prices", err)
		os.Exit(1)
	}
	discountRepo := discounts.NewRepository(dbClient.DB())
	calculator, err := pricing.NewCalculator(catalog, discountRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create price calculator", err)
		os.Exit(1)
	}

	salesService, err := sales.NewService(sales.ServiceParams{
		Logger:            logg,
		DB:                dbClient,
		Repo:              sales.NewRepository(dbClient.DB()),
		Calculator:        calculator,
		Dispatcher:        dispatcher,
		Metrics:           salesMetrics,
		ExternalRefPrefix: cfg.Sales.ExternalReferencePrefix,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sales service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Logger:        logg,
		Repo:          orders.NewRepository(dbClient.DB()),
		DisplayPrefix: cfg.Sales.DisplayCodePrefix,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	discountService, err := discounts.NewService(discountRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create discount service", err)
		os.Exit(1)
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:           cfg,
			Logger:           logg,
			DB:               dbClient,
			Redis:            redisClient,
			IdempotencyStore: redisClient,
			Verifier:         verifier,
			Sales:            salesService,
			Orders:           ordersService,
			Discounts:        discountService,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "graceful shutdown failed", err)
	}
	// In-flight inventory notifications finish before the db handle closes.
	dispatcher.Wait()
	logg.Info(ctx, "api server stopped")
}

func inventoryDeductors(cfg config.InventoryConfig) ([]inventory.Deductor, error) {
	ingredients, err := inventory.NewClient(enums.InventoryTargetIngredients, cfg.IngredientsURL, inventory.WithTimeout(cfg.Timeout))
	if err != nil {
		return nil, err
	}
	materials, err := inventory.NewClient(enums.InventoryTargetMaterials, cfg.MaterialsURL, inventory.WithTimeout(cfg.Timeout))
	if err != nil {
		return nil, err
	}
	return []inventory.Deductor{ingredients, materials}, nil
}
