package reports

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Jurisdiction is the destination state that qualifies an order for reporting.
const Jurisdiction = "TX"

// FulfilledStatuses are the order states counted as finalized sales.
var FulfilledStatuses = []string{"completed", "processing"}

// Format selects the verbosity of a rendered report.
type Format string

const (
	FormatSummary  Format = "summary"
	FormatDetailed Format = "detailed"
)

// ParseFormat normalizes a user-supplied format string.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatSummary, "":
		return FormatSummary, nil
	case FormatDetailed:
		return FormatDetailed, nil
	default:
		return "", fmt.Errorf("unknown report format %q", raw)
	}
}

// Channel selects the markup dialect of a rendered report.
type Channel string

const (
	ChannelDisplay Channel = "display"
	ChannelEmail   Channel = "email"
)

// Range is a calendar date range, inclusive on both ends.
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange builds a range from calendar dates, truncating any time component.
func NewRange(start, end time.Time) Range {
	return Range{Start: dateOnly(start), End: dateOnly(end)}
}

// WindowStart is the first instant of the range.
func (r Range) WindowStart() time.Time {
	return dateOnly(r.Start)
}

// WindowEnd extends the end date to the last second of that day.
func (r Range) WindowEnd() time.Time {
	d := dateOnly(r.End)
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, d.Location())
}

// String renders the range as "YYYY-MM-DD/YYYY-MM-DD".
func (r Range) String() string {
	return r.Start.Format("2006-01-02") + "/" + r.End.Format("2006-01-02")
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CurrentQuarter returns the calendar quarter containing now.
func CurrentQuarter(now time.Time) Range {
	year := now.Year()
	q := (int(now.Month()) - 1) / 3
	start := time.Date(year, time.Month(q*3+1), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 3, 0).AddDate(0, 0, -1)
	return Range{Start: start, End: end}
}

// PreviousQuarter returns the calendar quarter before the one containing now.
func PreviousQuarter(now time.Time) Range {
	return CurrentQuarter(CurrentQuarter(now).Start.AddDate(0, 0, -1))
}

// OrderSummary is one qualifying order enriched with refund-adjusted figures.
type OrderSummary struct {
	OrderNumber    int64           `json:"order_number"`
	OrderDate      time.Time       `json:"order_date"`
	City           string          `json:"city"`
	Zip            string          `json:"zip"`
	GrossTotal     decimal.Decimal `json:"gross_total"`
	OrderTax       decimal.Decimal `json:"order_tax"`
	ProductTax     decimal.Decimal `json:"product_tax"`
	ShippingCost   decimal.Decimal `json:"shipping_cost"`
	ShippingTax    decimal.Decimal `json:"shipping_tax"`
	RefundTotal    decimal.Decimal `json:"refund_total"`
	NetTotal       decimal.Decimal `json:"net_total"`
	NetTax         decimal.Decimal `json:"net_tax"`
	NetProductTax  decimal.Decimal `json:"net_product_tax"`
	NetShippingTax decimal.Decimal `json:"net_shipping_tax"`
	HasRefund      bool            `json:"has_refund"`
}

// TaxableTotal is the refund-adjusted amount before tax for one order.
func (o OrderSummary) TaxableTotal() decimal.Decimal {
	return o.NetTotal.Sub(o.NetTax)
}

// TaxReport is the immutable aggregate over one date range.
type TaxReport struct {
	Range               Range           `json:"range"`
	GeneratedAt         time.Time       `json:"generated_at"`
	Orders              []OrderSummary  `json:"orders"`
	OrderCount          int             `json:"order_count"`
	TotalNetValue       decimal.Decimal `json:"total_net_value"`
	TotalNetTax         decimal.Decimal `json:"total_net_tax"`
	TotalNetProductTax  decimal.Decimal `json:"total_net_product_tax"`
	TotalShippingCost   decimal.Decimal `json:"total_shipping_cost"`
	TotalNetShippingTax decimal.Decimal `json:"total_net_shipping_tax"`
	TotalRefunds        decimal.Decimal `json:"total_refunds"`
	TotalTaxableSales   decimal.Decimal `json:"total_taxable_sales"`
}

// Document is a rendered report ready for one delivery channel.
type Document struct {
	ContentType string `json:"content_type"`
	Body        string `json:"body"`
}

// GenerateParams drives one full report pipeline run.
type GenerateParams struct {
	Range     Range
	Format    Format
	SendEmail bool
	Recipient string
}

// GenerateResult carries the aggregate, its display rendering, and delivery state.
type GenerateResult struct {
	Report          *TaxReport `json:"report"`
	Display         Document   `json:"display"`
	EmailSent       bool       `json:"email_sent"`
	DeliveryWarning string     `json:"delivery_warning,omitempty"`
}
