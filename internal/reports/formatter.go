package reports

import (
	"fmt"
	html "html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FilingURL is where the rendered figures get filed.
const FilingURL = "https://security.app.cpa.state.tx.us/public/login"

const refundMarker = "↩"

var usPrinter = message.NewPrinter(language.AmericanEnglish)

func money(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return usPrinter.Sprintf("$%.2f", f)
}

func count(n int) string {
	return usPrinter.Sprintf("%d", n)
}

func longDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

func shortDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

type orderRow struct {
	Number    string
	Date      string
	City      string
	Zip       string
	Taxable   string
	Tax       string
	Total     string
	HasRefund bool
}

type reportView struct {
	Detailed          bool
	PeriodStart       string
	PeriodEnd         string
	OrderCount        string
	TotalNetValue     string
	TotalProductTax   string
	TotalShippingCost string
	TotalShippingTax  string
	TotalRefunds      string
	ShowRefunds       bool
	TotalTaxableSales string
	TotalNetTax       string
	Rows              []orderRow
	GeneratedAt       string
	FilingURL         string
}

func newReportView(report *TaxReport, format Format) reportView {
	view := reportView{
		Detailed:          format == FormatDetailed,
		PeriodStart:       longDate(report.Range.Start),
		PeriodEnd:         longDate(report.Range.End),
		OrderCount:        count(report.OrderCount),
		TotalNetValue:     money(report.TotalNetValue),
		TotalProductTax:   money(report.TotalNetProductTax),
		TotalShippingCost: money(report.TotalShippingCost),
		TotalShippingTax:  money(report.TotalNetShippingTax),
		TotalRefunds:      money(report.TotalRefunds),
		ShowRefunds:       report.TotalRefunds.IsPositive(),
		TotalTaxableSales: money(report.TotalTaxableSales),
		TotalNetTax:       money(report.TotalNetTax),
		GeneratedAt:       report.GeneratedAt.Format("January 2, 2006 3:04 PM"),
		FilingURL:         FilingURL,
	}
	for _, order := range report.Orders {
		view.Rows = append(view.Rows, orderRow{
			Number:    fmt.Sprintf("#%d", order.OrderNumber),
			Date:      shortDate(order.OrderDate),
			City:      order.City,
			Zip:       order.Zip,
			Taxable:   money(order.TaxableTotal()),
			Tax:       money(order.NetTax),
			Total:     money(order.NetTotal),
			HasRefund: order.HasRefund,
		})
	}
	return view
}

func render(report *TaxReport, format Format, channel Channel) (Document, error) {
	if report == nil {
		return Document{}, fmt.Errorf("report required")
	}

	view := newReportView(report, format)
	switch channel {
	case ChannelDisplay:
		var buf strings.Builder
		if err := displayTmpl.Execute(&buf, view); err != nil {
			return Document{}, fmt.Errorf("rendering display document: %w", err)
		}
		return Document{ContentType: "text/html", Body: buf.String()}, nil
	case ChannelEmail:
		return Document{ContentType: "text/plain", Body: renderEmail(view)}, nil
	default:
		return Document{}, fmt.Errorf("unknown channel %q", channel)
	}
}

var displayTmpl = html.Must(html.New("report").Parse(`<div class="summary-box">
  <h3>Texas Sales Tax Report - {{if .Detailed}}Detailed{{else}}Summary{{end}}</h3>
  <p><strong>Period:</strong> {{.PeriodStart}} to {{.PeriodEnd}}</p>
  <div class="summary-item">
    <span>Total Orders to Texas:</span>
    <span><strong>{{.OrderCount}}</strong></span>
  </div>
{{- if .Detailed}}
  <div class="summary-item">
    <span>Total Order Value (w/ tax):</span>
    <span><strong>{{.TotalNetValue}}</strong></span>
  </div>
{{- if .ShowRefunds}}
  <div class="summary-item">
    <span>Total Refunds:</span>
    <span>{{.TotalRefunds}}</span>
  </div>
{{- end}}
  <div class="summary-item muted">
    <span>Tax on Products:</span>
    <span>{{.TotalProductTax}}</span>
  </div>
  <div class="summary-item muted">
    <span>Total Shipping Charged:</span>
    <span>{{.TotalShippingCost}}</span>
  </div>
  <div class="summary-item muted">
    <span>Tax on Shipping:</span>
    <span>{{.TotalShippingTax}}</span>
  </div>
{{- end}}
  <div class="summary-item divider">
    <span>Total Taxable Sales:</span>
    <span class="figure"><strong>{{.TotalTaxableSales}}</strong></span>
  </div>
  <div class="summary-item emphasis">
    <span>Total Sales Tax to Remit:</span>
    <span class="figure"><strong>{{.TotalNetTax}}</strong></span>
  </div>
</div>
<div class="notice">
  <p><strong>Note:</strong> Report these figures to Texas Comptroller. Sales tax includes tax on both products and shipping.</p>
</div>
{{- if .Detailed}}
{{- if .Rows}}
<h3>Order Details</h3>
<table>
  <thead>
    <tr>
      <th>Order ID</th>
      <th>Order Date</th>
      <th>City</th>
      <th>ZIP</th>
      <th>Taxable</th>
      <th>Tax</th>
      <th>Total</th>
    </tr>
  </thead>
  <tbody>
{{- range .Rows}}
    <tr>
      <td>{{.Number}}{{if .HasRefund}} <span class="refund-marker" title="refund issued">&#8617;</span>{{end}}</td>
      <td>{{.Date}}</td>
      <td>{{.City}}</td>
      <td>{{.Zip}}</td>
      <td>{{.Taxable}}</td>
      <td>{{.Tax}}</td>
      <td><strong>{{.Total}}</strong></td>
    </tr>
{{- end}}
  </tbody>
</table>
<p class="note"><strong>Note:</strong> "Taxable" = amount before tax, "Total" = final amount including tax</p>
{{- else}}
<p><em>No Texas orders found for this date range.</em></p>
{{- end}}
{{- end}}
`))

func renderEmail(view reportView) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Texas Sales Tax Report\n")
	fmt.Fprintf(&b, "Period: %s to %s\n", view.PeriodStart, view.PeriodEnd)
	b.WriteString(strings.Repeat("=", 70) + "\n\n")

	if !view.Detailed {
		b.WriteString("SUMMARY FOR TEXAS COMPTROLLER\n")
		b.WriteString(strings.Repeat("=", 70) + "\n\n")
		fmt.Fprintf(&b, "  %-30s %s\n", "Total Orders to Texas:", view.OrderCount)
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %-30s %s\n", "Total Taxable Sales:", view.TotalTaxableSales)
		fmt.Fprintf(&b, "  %-30s %s\n", "Total Sales Tax to Remit:", view.TotalNetTax)
		b.WriteString("\n" + strings.Repeat("=", 70) + "\n\n")
		b.WriteString("NOTE: Sales tax includes tax on both products and shipping charges.\n")
		b.WriteString("      Report the figures above to Texas Comptroller.\n\n")
	} else {
		b.WriteString("QUARTERLY SUMMARY\n")
		b.WriteString(strings.Repeat("=", 70) + "\n\n")
		fmt.Fprintf(&b, "  %-30s %s\n", "Total Orders to Texas:", view.OrderCount)
		fmt.Fprintf(&b, "  %-30s %s\n", "Total Order Value (w/ tax):", view.TotalNetValue)
		if view.ShowRefunds {
			fmt.Fprintf(&b, "  %-30s %s\n", "Total Refunds:", view.TotalRefunds)
		}
		b.WriteString("\n")
		b.WriteString("TAX BREAKDOWN:\n")
		fmt.Fprintf(&b, "  %-30s %s\n", "  Product Tax:", view.TotalProductTax)
		fmt.Fprintf(&b, "  %-30s %s\n", "  Shipping Tax:", view.TotalShippingTax)
		b.WriteString("  " + strings.Repeat("-", 50) + "\n")
		fmt.Fprintf(&b, "  %-30s %s\n", "  TOTAL TAXABLE SALES:", view.TotalTaxableSales)
		fmt.Fprintf(&b, "  %-30s %s\n", "  TOTAL TAX TO REMIT:", view.TotalNetTax)
		b.WriteString("\n" + strings.Repeat("=", 70) + "\n\n")

		if len(view.Rows) > 0 {
			b.WriteString("ORDER DETAILS\n")
			b.WriteString(strings.Repeat("=", 78) + "\n")
			fmt.Fprintf(&b, "%-8s %-11s %-14s %-6s %10s %10s %10s\n",
				"Order", "Date", "City", "ZIP", "Taxable", "Tax", "Total")
			b.WriteString(strings.Repeat("-", 78) + "\n")
			for _, row := range view.Rows {
				marker := ""
				if row.HasRefund {
					marker = " " + refundMarker
				}
				fmt.Fprintf(&b, "%-8s %-11s %-14s %-6s %10s %10s %10s%s\n",
					row.Number, row.Date, truncate(row.City, 14), row.Zip,
					row.Taxable, row.Tax, row.Total, marker)
			}
			b.WriteString(strings.Repeat("=", 78) + "\n\n")
			b.WriteString("NOTE: 'Taxable' = amount before tax, 'Total' = final amount including tax\n")
			if view.ShowRefunds {
				b.WriteString("      " + refundMarker + " marks orders with a refund issued\n")
			}
			b.WriteString("\n")
		} else {
			b.WriteString("No Texas orders found for this date range.\n\n")
		}
	}

	b.WriteString("File your return at:\n")
	b.WriteString(view.FilingURL + "\n\n")
	b.WriteString(strings.Repeat("=", 70) + "\n")
	fmt.Fprintf(&b, "Generated: %s\n", view.GeneratedAt)

	return b.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
