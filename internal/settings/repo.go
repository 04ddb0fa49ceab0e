package settings

import (
	"context"
	"errors"

	"github.com/cardmachineworks/taxreporter/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists the single-row reporting preferences.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context) (*models.ReportSetting, error)
	Save(ctx context.Context, setting *models.ReportSetting) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Get returns the settings row, or nil when none has been saved yet.
func (r *repository) Get(ctx context.Context) (*models.ReportSetting, error) {
	var setting models.ReportSetting
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *repository) Save(ctx context.Context, setting *models.ReportSetting) error {
	return r.db.WithContext(ctx).Save(setting).Error
}
