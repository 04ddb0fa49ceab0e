package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cardmachineworks/taxreporter/internal/cron"
	"github.com/cardmachineworks/taxreporter/internal/mailer"
	"github.com/cardmachineworks/taxreporter/internal/reports"
	"github.com/cardmachineworks/taxreporter/internal/settings"
	"github.com/cardmachineworks/taxreporter/pkg/config"
	"github.com/cardmachineworks/taxreporter/pkg/db"
	"github.com/cardmachineworks/taxreporter/pkg/logger"
	"github.com/cardmachineworks/taxreporter/pkg/metrics"
	"github.com/cardmachineworks/taxreporter/pkg/migrate"
	"github.com/cardmachineworks/taxreporter/pkg/redis"
)

const lockKeyFormat = "txr:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	cronMetrics := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	reportMetrics := metrics.NewReportMetrics(prometheus.DefaultRegisterer)

	sender, err := mailer.NewSendgridSender(cfg.Sendgrid)
	if err != nil {
		logg.Error(context.Background(), "failed to create mail sender", err)
		os.Exit(1)
	}
	dispatcher, err := reports.NewDispatcher(sender)
	if err != nil {
		logg.Error(context.Background(), "failed to create report dispatcher", err)
		os.Exit(1)
	}

	reportsService, err := reports.NewService(
		reports.NewRepository(dbClient.DB()),
		dispatcher,
		reportMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create reports service", err)
		os.Exit(1)
	}

	settingsService, err := settings.NewService(
		settings.NewRepository(dbClient.DB()),
		cfg.Reports.DefaultRecipient,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	quarterlyJob, err := cron.NewQuarterlyReportJob(cron.QuarterlyReportJobParams{
		Logger:   logg,
		Reports:  reportsService,
		Settings: settingsService,
		Marker:   redisClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create quarterly report job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(quarterlyJob),
		Lock:     lock,
		Metrics:  cronMetrics,
		Interval: cfg.Reports.CronInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
