package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bleupos/sales-service/internal/cron"
	"github.com/bleupos/sales-service/internal/inventory"
	"github.com/bleupos/sales-service/pkg/config"
	"github.com/bleupos/sales-service/pkg/db"
	"github.com/bleupos/sales-service/pkg/enums"
	"github.com/bleupos/sales-service/pkg/instance"
	"github.com/bleupos/sales-service/pkg/logger"
	"github.com/bleupos/sales-service/pkg/metrics"
	"github.com/bleupos/sales-service/pkg/migrate"
	"github.com/bleupos/sales-service/pkg/redis"
)

const serviceName = "cron-worker"

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = serviceName

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
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

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient.Raw(), redisClient.LockKey(serviceName+":"+envOrLocal(cfg.App.Env)), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	retryJob, err := inventoryRetryJob(cfg, logg, dbClient, metricsCollector)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory retry job", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry()
	if err := registry.Register(retryJob); err != nil {
		logg.Error(context.Background(), "failed to register cron job", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Name:     serviceName,
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"instance":    instance.GetID(),
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func inventoryRetryJob(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, m *metrics.CronJobMetrics) (cron.Job, error) {
	ingredients, err := inventory.NewClient(enums.InventoryTargetIngredients, cfg.Inventory.IngredientsURL, inventory.WithTimeout(cfg.Inventory.Timeout))
	if err != nil {
		return nil, err
	}
	materials, err := inventory.NewClient(enums.InventoryTargetMaterials, cfg.Inventory.MaterialsURL, inventory.WithTimeout(cfg.Inventory.Timeout))
	if err != nil {
		return nil, err
	}
	return cron.NewInventoryRetryJob(cron.InventoryRetryJobParams{
		Logger:       logg,
		Failures:     inventory.NewFailureRepository(dbClient.DB()),
		Deductors:    []inventory.Deductor{ingredients, materials},
		ServiceToken: cfg.Inventory.ServiceToken,
		MaxAttempts:  cfg.Inventory.RetryMaxAttempts,
		BatchSize:    cfg.Inventory.RetryBatchSize,
		RatePerSec:   cfg.Inventory.RetryRatePerSec,
		Metrics:      m,
	})
}

func envOrLocal(env string) string {
	if env == "" {
		return "local"
	}
	return env
}
