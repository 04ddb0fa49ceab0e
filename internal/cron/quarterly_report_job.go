package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cardmachineworks/taxreporter/internal/reports"
	"github.com/cardmachineworks/taxreporter/internal/settings"
	"github.com/cardmachineworks/taxreporter/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
)

// Marker TTL outlives the quarter it guards so a late-started worker cannot
// re-send, but expires before the same quarter label recurs.
const reportMarkerTTL = 100 * 24 * time.Hour

// markerStore guards against re-sending a quarter's report.
type markerStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	ReportMarkerKey(quarter string) string
}

// QuarterlyReportJobParams configure the scheduled report job.
type QuarterlyReportJobParams struct {
	Logger   *logger.Logger
	Reports  reports.Service
	Settings settings.Service
	Marker   markerStore
}

// NewQuarterlyReportJob builds the job that emails the tax report on the last
// day of each calendar quarter.
func NewQuarterlyReportJob(params QuarterlyReportJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Reports == nil {
		return nil, fmt.Errorf("reports service required")
	}
	if params.Settings == nil {
		return nil, fmt.Errorf("settings service required")
	}
	return &quarterlyReportJob{
		logg:     params.Logger,
		reports:  params.Reports,
		settings: params.Settings,
		marker:   params.Marker,
		now:      time.Now,
	}, nil
}

type quarterlyReportJob struct {
	logg     *logger.Logger
	reports  reports.Service
	settings settings.Service
	marker   markerStore
	now      func() time.Time
}

func (j *quarterlyReportJob) Name() string { return "quarterly-report" }

func (j *quarterlyReportJob) Run(ctx context.Context) error {
	now := j.now()
	quarter := reports.CurrentQuarter(now)

	// The worker ticks daily; only the last day of the quarter fires.
	if now.Format("2006-01-02") != quarter.End.Format("2006-01-02") {
		return nil
	}

	ctx = j.logg.WithReportRange(ctx, quarter.Start, quarter.End)

	setting, err := j.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("load report settings: %w", err)
	}
	if !setting.QuarterlyEnabled {
		j.logg.Info(ctx, "quarterly reports disabled; skipping")
		return nil
	}

	sent, err := j.alreadySent(ctx, quarter)
	if err != nil {
		return err
	}
	if sent {
		j.logg.Info(ctx, "quarterly report already dispatched; skipping")
		return nil
	}

	format, err := reports.ParseFormat(setting.DefaultFormat)
	if err != nil {
		format = reports.FormatSummary
	}

	result, err := j.reports.Generate(ctx, reports.GenerateParams{
		Range:     quarter,
		Format:    format,
		SendEmail: true,
		Recipient: setting.RecipientEmail,
	})
	if err != nil {
		return fmt.Errorf("generate quarterly report: %w", err)
	}
	if !result.EmailSent {
		return fmt.Errorf("quarterly report delivery failed: %s", result.DeliveryWarning)
	}

	var errs error
	if err := j.markSent(ctx, quarter); err != nil {
		errs = multierr.Append(errs, err)
	}
	if err := j.settings.RecordDispatch(ctx, quarter.String(), now); err != nil {
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		return errs
	}

	j.logg.Info(ctx, "quarterly report dispatched")
	return nil
}

func (j *quarterlyReportJob) alreadySent(ctx context.Context, quarter reports.Range) (bool, error) {
	if j.marker == nil {
		return false, nil
	}
	_, err := j.marker.Get(ctx, j.marker.ReportMarkerKey(quarter.String()))
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read quarterly report marker: %w", err)
	}
	return true, nil
}

func (j *quarterlyReportJob) markSent(ctx context.Context, quarter reports.Range) error {
	if j.marker == nil {
		return nil
	}
	key := j.marker.ReportMarkerKey(quarter.String())
	if err := j.marker.Set(ctx, key, "sent", reportMarkerTTL); err != nil {
		return fmt.Errorf("write quarterly report marker: %w", err)
	}
	return nil
}
