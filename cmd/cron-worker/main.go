package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/evolutionflow/admin-bff/internal/app"
	"github.com/evolutionflow/admin-bff/internal/auth"
	"github.com/evolutionflow/admin-bff/internal/cron"
	"github.com/evolutionflow/admin-bff/pkg/config"
	"github.com/evolutionflow/admin-bff/pkg/db"
	"github.com/evolutionflow/admin-bff/pkg/logger"
	"github.com/evolutionflow/admin-bff/pkg/metrics"
	"github.com/evolutionflow/admin-bff/pkg/migrate"
	"github.com/evolutionflow/admin-bff/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := multierr.Combine(redisClient.Close(), dbClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing resources", err)
		}
	}()

	services, err := app.NewServices(app.Params{
		Config:     cfg,
		Logger:     logg,
		DB:         dbClient.DB(),
		Redis:      redisClient,
		Registerer: prometheus.DefaultRegisterer,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}

	registry, err := buildRegistry(cfg, logg, services)
	if err != nil {
		logg.Error(context.Background(), "failed to register cron jobs", err)
		os.Exit(1)
	}

	env := cfg.App.Env
	if env == "" {
		env = "local"
	}
	lock, err := redis.NewLock(redisClient, redisClient.LockKey("cron", env), cfg.Cron.Interval)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"interval": cfg.Cron.Interval.String(),
		"jobs":     registry.Names(),
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func buildRegistry(cfg *config.Config, logg *logger.Logger, services *app.Services) (*cron.Registry, error) {
	registry := cron.NewRegistry()

	retention, err := cron.NewAuditRetentionJob(cron.AuditRetentionJobParams{
		Logger:    logg,
		Purger:    services.Audit,
		Retention: cfg.Cron.AuditRetention(),
	})
	if err != nil {
		return nil, err
	}
	registry.Register(retention)

	if !cfg.ServiceAccount.Enabled() {
		logg.Warn(context.Background(), "service account not configured; dashboard snapshots disabled")
		return registry, nil
	}
	account, err := auth.NewServiceAccount(services.Backend, cfg.ServiceAccount)
	if err != nil {
		return nil, err
	}
	snapshot, err := cron.NewDashboardSnapshotJob(cron.DashboardSnapshotJobParams{
		Logger:    logg,
		Account:   account,
		Dashboard: services.Dashboard,
		TTL:       cfg.Cron.SnapshotTTL,
	})
	if err != nil {
		return nil, err
	}
	registry.Register(snapshot)
	return registry, nil
}
