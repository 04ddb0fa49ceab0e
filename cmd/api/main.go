package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/cardmachineworks/taxreporter/api/routes"
	"github.com/cardmachineworks/taxreporter/internal/mailer"
	"github.com/cardmachineworks/taxreporter/internal/reports"
	"github.com/cardmachineworks/taxreporter/internal/settings"
	"github.com/cardmachineworks/taxreporter/pkg/config"
	"github.com/cardmachineworks/taxreporter/pkg/db"
	"github.com/cardmachineworks/taxreporter/pkg/logger"
	"github.com/cardmachineworks/taxreporter/pkg/metrics"
	"github.com/cardmachineworks/taxreporter/pkg/migrate"
)

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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	reportMetrics := metrics.NewReportMetrics(registry)

	var dispatcher reports.Dispatcher
	if cfg.Sendgrid.APIKey != "" {
		sender, err := mailer.NewSendgridSender(cfg.Sendgrid)
		if err != nil {
			logg.Error(context.Background(), "failed to create mail sender", err)
			os.Exit(1)
		}
		dispatcher, err = reports.NewDispatcher(sender)
		if err != nil {
			logg.Error(context.Background(), "failed to create report dispatcher", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "sendgrid api key not set; email delivery disabled")
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

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, reportsService, settingsService, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
