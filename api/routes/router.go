package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cardmachineworks/taxreporter/api/controllers"
	"github.com/cardmachineworks/taxreporter/api/middleware"
	"github.com/cardmachineworks/taxreporter/internal/reports"
	"github.com/cardmachineworks/taxreporter/internal/settings"
	"github.com/cardmachineworks/taxreporter/pkg/config"
	"github.com/cardmachineworks/taxreporter/pkg/db"
	"github.com/cardmachineworks/taxreporter/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	reportsService reports.Service,
	settingsService settings.Service,
	metricsRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Get("/healthz", controllers.HealthLive(cfg))
	r.Get("/readyz", controllers.HealthReady(cfg, dbP, logg))

	if metricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/v1/reports", func(r chi.Router) {
		r.Use(middleware.OperatorAuth(logg, cfg.Reports.OperatorToken))

		r.Post("/generate", controllers.GenerateReport(reportsService, settingsService, logg))
		r.Get("/settings", controllers.GetReportSettings(settingsService, logg))
		r.Put("/settings", controllers.UpdateReportSettings(settingsService, logg))
	})

	return r
}
