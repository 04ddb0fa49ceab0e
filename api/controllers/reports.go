package controllers

import (
	"net/http"

	"github.com/cardmachineworks/taxreporter/api/responses"
	"github.com/cardmachineworks/taxreporter/api/validators"
	"github.com/cardmachineworks/taxreporter/internal/reports"
	"github.com/cardmachineworks/taxreporter/internal/settings"
	pkgerrors "github.com/cardmachineworks/taxreporter/pkg/errors"
	"github.com/cardmachineworks/taxreporter/pkg/logger"
)

type generateReportRequest struct {
	StartDate    string `json:"start_date" validate:"required"`
	EndDate      string `json:"end_date" validate:"required"`
	Format       string `json:"format" validate:"omitempty,oneof=summary detailed"`
	SendEmail    bool   `json:"send_email"`
	EmailAddress string `json:"email_address" validate:"omitempty,email"`
}

// GenerateReport runs the aggregation pipeline for an operator-supplied range.
func GenerateReport(svc reports.Service, settingsSvc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		var req generateReportRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		start, end, err := validators.ParseDateRange(req.StartDate, req.EndDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := reports.GenerateParams{
			Range:     reports.NewRange(start, end),
			SendEmail: req.SendEmail,
			Recipient: req.EmailAddress,
		}

		format, err := reports.ParseFormat(req.Format)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid report format"))
			return
		}
		params.Format = format

		// Stored preferences fill in what the request leaves blank.
		if settingsSvc != nil && (req.Format == "" || (req.SendEmail && req.EmailAddress == "")) {
			setting, err := settingsSvc.Get(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if req.Format == "" {
				if stored, err := reports.ParseFormat(setting.DefaultFormat); err == nil {
					params.Format = stored
				}
			}
			if req.SendEmail && req.EmailAddress == "" {
				params.Recipient = setting.RecipientEmail
			}
		}

		result, err := svc.Generate(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
