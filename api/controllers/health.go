package controllers

import (
	"net/http"

	"github.com/cardmachineworks/taxreporter/api/responses"
	"github.com/cardmachineworks/taxreporter/pkg/config"
	"github.com/cardmachineworks/taxreporter/pkg/db"
	pkgerrors "github.com/cardmachineworks/taxreporter/pkg/errors"
	"github.com/cardmachineworks/taxreporter/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-TaxReporter-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, pinger db.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-TaxReporter-Env", cfg.App.Env)
		if pinger != nil {
			if err := pinger.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
