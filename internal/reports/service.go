package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cardmachineworks/taxreporter/pkg/db/models"
	pkgerrors "github.com/cardmachineworks/taxreporter/pkg/errors"
	"github.com/cardmachineworks/taxreporter/pkg/logger"
	"github.com/cardmachineworks/taxreporter/pkg/metrics"
	"github.com/shopspring/decimal"
)

type service struct {
	repo     Repository
	dispatch Dispatcher
	metrics  *metrics.ReportMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds a report service with the required dependencies.
// The dispatcher may be nil when email delivery is not wired (tests, CLI use).
func NewService(repo Repository, dispatch Dispatcher, m *metrics.ReportMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		dispatch: dispatch,
		metrics:  m,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) Aggregate(ctx context.Context, r Range) (*TaxReport, error) {
	orders, err := s.repo.ListQualifyingOrders(ctx, r)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching qualifying orders")
	}

	report := &TaxReport{
		Range:               r,
		GeneratedAt:         s.now(),
		Orders:              make([]OrderSummary, 0, len(orders)),
		OrderCount:          len(orders),
		TotalNetValue:       decimal.Zero,
		TotalNetTax:         decimal.Zero,
		TotalNetProductTax:  decimal.Zero,
		TotalShippingCost:   decimal.Zero,
		TotalNetShippingTax: decimal.Zero,
		TotalRefunds:        decimal.Zero,
	}

	for _, order := range orders {
		summary := summarize(order)
		report.Orders = append(report.Orders, summary)

		report.TotalNetValue = report.TotalNetValue.Add(summary.NetTotal)
		report.TotalNetTax = report.TotalNetTax.Add(summary.NetTax)
		report.TotalNetProductTax = report.TotalNetProductTax.Add(summary.NetProductTax)
		report.TotalShippingCost = report.TotalShippingCost.Add(summary.ShippingCost)
		report.TotalNetShippingTax = report.TotalNetShippingTax.Add(summary.NetShippingTax)
		report.TotalRefunds = report.TotalRefunds.Add(summary.RefundTotal)
	}

	// Repos return rows ordered already; re-sort so stub-backed callers get
	// the same deterministic newest-first ordering.
	sort.SliceStable(report.Orders, func(i, j int) bool {
		a, b := report.Orders[i], report.Orders[j]
		if !a.OrderDate.Equal(b.OrderDate) {
			return a.OrderDate.After(b.OrderDate)
		}
		return a.OrderNumber > b.OrderNumber
	})

	report.TotalTaxableSales = report.TotalNetValue.Sub(report.TotalNetTax)
	return report, nil
}

// summarize applies the refund proration to one order. A refund larger than
// the gross total pushes the ratio past 1 and the net figures negative; that
// reflects the source data and is carried through untouched.
func summarize(order models.Order) OrderSummary {
	refundTotal := decimal.Zero
	for _, refund := range order.Refunds {
		refundTotal = refundTotal.Add(refund.Amount)
	}

	keptRatio := decimal.NewFromInt(1)
	if order.GrossTotal.IsPositive() {
		keptRatio = decimal.NewFromInt(1).Sub(refundTotal.Div(order.GrossTotal))
	}

	return OrderSummary{
		OrderNumber:    order.OrderNumber,
		OrderDate:      order.OrderDate,
		City:           order.ShipCity,
		Zip:            order.ShipPostcode,
		GrossTotal:     order.GrossTotal,
		OrderTax:       order.TaxTotal,
		ProductTax:     order.ProductTax,
		ShippingCost:   order.ShippingTotal,
		ShippingTax:    order.ShippingTax,
		RefundTotal:    refundTotal,
		NetTotal:       order.GrossTotal.Sub(refundTotal),
		NetTax:         order.TaxTotal.Mul(keptRatio),
		NetProductTax:  order.ProductTax.Mul(keptRatio),
		NetShippingTax: order.ShippingTax.Mul(keptRatio),
		HasRefund:      refundTotal.IsPositive(),
	}
}

func (s *service) Render(report *TaxReport, format Format, channel Channel) (Document, error) {
	return render(report, format, channel)
}

func (s *service) Generate(ctx context.Context, params GenerateParams) (*GenerateResult, error) {
	ctx = s.logg.WithReportRange(ctx, params.Range.Start, params.Range.End)

	report, err := s.Aggregate(ctx, params.Range)
	if err != nil {
		return nil, err
	}

	display, err := s.Render(report, params.Format, ChannelDisplay)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rendering display report")
	}

	s.metrics.IncGenerated(string(params.Format))
	s.logg.Info(ctx, fmt.Sprintf("report generated: %d orders", report.OrderCount))

	result := &GenerateResult{Report: report, Display: display}
	if !params.SendEmail {
		return result, nil
	}

	if s.dispatch == nil {
		result.DeliveryWarning = "email delivery is not configured"
		s.metrics.IncEmail("skipped")
		s.logg.Warn(ctx, "email requested but no dispatcher configured")
		return result, nil
	}

	email, err := s.Render(report, params.Format, ChannelEmail)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rendering email report")
	}

	if err := s.dispatch.Dispatch(ctx, params.Recipient, report.Range, email); err != nil {
		// Delivery is a soft failure: the report stays usable.
		result.DeliveryWarning = err.Error()
		s.metrics.IncEmail("failure")
		s.logg.Error(ctx, "report email delivery failed", err)
		return result, nil
	}

	result.EmailSent = true
	s.metrics.IncEmail("success")
	s.logg.Info(s.logg.WithRecipient(ctx, params.Recipient), "report email delivered")
	return result, nil
}
