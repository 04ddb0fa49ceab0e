package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/cardmachineworks/taxreporter/internal/reports"
	"github.com/cardmachineworks/taxreporter/pkg/db/models"
	pkgerrors "github.com/cardmachineworks/taxreporter/pkg/errors"
	"github.com/google/uuid"
)

// UpdateParams carries the writable reporting preferences. Nil fields keep
// the stored value.
type UpdateParams struct {
	QuarterlyEnabled *bool
	RecipientEmail   *string
	DefaultFormat    *string
}

// Service reads and updates the reporting preferences.
type Service interface {
	Get(ctx context.Context) (*models.ReportSetting, error)
	Update(ctx context.Context, params UpdateParams) (*models.ReportSetting, error)

	// RecordDispatch stamps the settings row after a scheduled report goes out.
	RecordDispatch(ctx context.Context, rangeLabel string, at time.Time) error
}

type service struct {
	repo             Repository
	defaultRecipient string
}

// NewService builds a settings service. defaultRecipient seeds the recipient
// when no row exists yet.
func NewService(repo Repository, defaultRecipient string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo, defaultRecipient: defaultRecipient}, nil
}

func (s *service) Get(ctx context.Context) (*models.ReportSetting, error) {
	setting, err := s.repo.Get(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading report settings")
	}
	if setting == nil {
		return s.defaults(), nil
	}
	return setting, nil
}

func (s *service) Update(ctx context.Context, params UpdateParams) (*models.ReportSetting, error) {
	setting, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if params.QuarterlyEnabled != nil {
		setting.QuarterlyEnabled = *params.QuarterlyEnabled
	}
	if params.RecipientEmail != nil {
		setting.RecipientEmail = *params.RecipientEmail
	}
	if params.DefaultFormat != nil {
		format, err := reports.ParseFormat(*params.DefaultFormat)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid report format")
		}
		setting.DefaultFormat = string(format)
	}

	if err := s.repo.Save(ctx, setting); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving report settings")
	}
	return setting, nil
}

func (s *service) RecordDispatch(ctx context.Context, rangeLabel string, at time.Time) error {
	setting, err := s.Get(ctx)
	if err != nil {
		return err
	}
	setting.LastDispatchedAt = &at
	setting.LastDispatchedRange = &rangeLabel
	if err := s.repo.Save(ctx, setting); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording report dispatch")
	}
	return nil
}

func (s *service) defaults() *models.ReportSetting {
	return &models.ReportSetting{
		ID:               uuid.New(),
		QuarterlyEnabled: false,
		RecipientEmail:   s.defaultRecipient,
		DefaultFormat:    string(reports.FormatSummary),
	}
}
