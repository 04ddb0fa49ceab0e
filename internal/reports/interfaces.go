package reports

import (
	"context"

	"github.com/cardmachineworks/taxreporter/pkg/db/models"
	"gorm.io/gorm"
)

// Repository is the read-only query surface over the order store.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	// ListQualifyingOrders returns fulfilled Texas orders inside the range
	// window with their refunds preloaded, newest first.
	ListQualifyingOrders(ctx context.Context, r Range) ([]models.Order, error)
}

// Service is the report aggregation and generation surface.
type Service interface {
	// Aggregate computes the refund-adjusted totals for the range.
	Aggregate(ctx context.Context, r Range) (*TaxReport, error)

	// Render formats an already-built report for one channel.
	Render(report *TaxReport, format Format, channel Channel) (Document, error)

	// Generate runs the full pipeline: aggregate, render, optionally email.
	Generate(ctx context.Context, params GenerateParams) (*GenerateResult, error)
}
