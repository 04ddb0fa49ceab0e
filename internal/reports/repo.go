package reports

import (
	"context"

	"github.com/cardmachineworks/taxreporter/pkg/db/models"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reports repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListQualifyingOrders(ctx context.Context, rng Range) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Refunds").
		Where("ship_state = ?", Jurisdiction).
		Where("status IN ?", FulfilledStatuses).
		Where("order_date BETWEEN ? AND ?", rng.WindowStart(), rng.WindowEnd()).
		Order("order_date DESC, order_number DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
