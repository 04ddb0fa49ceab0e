package controllers

import (
	"net/http"
	"time"

	"github.com/cardmachineworks/taxreporter/api/responses"
	"github.com/cardmachineworks/taxreporter/api/validators"
	"github.com/cardmachineworks/taxreporter/internal/settings"
	"github.com/cardmachineworks/taxreporter/pkg/db/models"
	pkgerrors "github.com/cardmachineworks/taxreporter/pkg/errors"
	"github.com/cardmachineworks/taxreporter/pkg/logger"
)

type reportSettingResponse struct {
	QuarterlyEnabled    bool    `json:"quarterly_enabled"`
	RecipientEmail      string  `json:"recipient_email"`
	DefaultFormat       string  `json:"default_format"`
	LastDispatchedAt    *string `json:"last_dispatched_at,omitempty"`
	LastDispatchedRange *string `json:"last_dispatched_range,omitempty"`
}

func settingResponse(setting *models.ReportSetting) reportSettingResponse {
	resp := reportSettingResponse{
		QuarterlyEnabled:    setting.QuarterlyEnabled,
		RecipientEmail:      setting.RecipientEmail,
		DefaultFormat:       setting.DefaultFormat,
		LastDispatchedRange: setting.LastDispatchedRange,
	}
	if setting.LastDispatchedAt != nil {
		stamped := setting.LastDispatchedAt.UTC().Format(time.RFC3339)
		resp.LastDispatchedAt = &stamped
	}
	return resp
}

// GetReportSettings returns the stored reporting preferences.
func GetReportSettings(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		setting, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settingResponse(setting))
	}
}

type updateSettingsRequest struct {
	QuarterlyEnabled *bool   `json:"quarterly_enabled"`
	RecipientEmail   *string `json:"recipient_email" validate:"omitempty,email"`
	DefaultFormat    *string `json:"default_format" validate:"omitempty,oneof=summary detailed"`
}

// UpdateReportSettings merges the supplied fields into the stored preferences.
func UpdateReportSettings(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		var req updateSettingsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setting, err := svc.Update(r.Context(), settings.UpdateParams{
			QuarterlyEnabled: req.QuarterlyEnabled,
			RecipientEmail:   req.RecipientEmail,
			DefaultFormat:    req.DefaultFormat,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settingResponse(setting))
	}
}
