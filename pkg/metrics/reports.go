package metrics

import "github.com/prometheus/client_golang/prometheus"

// ReportMetrics counts generated reports and email deliveries.
type ReportMetrics struct {
	generated *prometheus.CounterVec
	emails    *prometheus.CounterVec
}

// NewReportMetrics registers the report metrics on the provided registerer.
func NewReportMetrics(reg prometheus.Registerer) *ReportMetrics {
	if reg == nil {
		return &ReportMetrics{}
	}
	generated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reports_generated_total",
		Help: "Generated tax reports by format.",
	}, []string{"format"})
	emails := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_emails_total",
		Help: "Report email deliveries by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(generated, emails)
	return &ReportMetrics{generated: generated, emails: emails}
}

// IncGenerated increments the generated counter for the given format.
func (r *ReportMetrics) IncGenerated(format string) {
	if r == nil || r.generated == nil {
		return
	}
	r.generated.WithLabelValues(normalizeLabel(format)).Inc()
}

// IncEmail increments the email counter for the given outcome.
func (r *ReportMetrics) IncEmail(outcome string) {
	if r == nil || r.emails == nil {
		return
	}
	r.emails.WithLabelValues(normalizeLabel(outcome)).Inc()
}
