package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cardmachineworks/taxreporter/internal/reports"
	"github.com/cardmachineworks/taxreporter/internal/settings"
	"github.com/cardmachineworks/taxreporter/pkg/db/models"
	pkgerrors "github.com/cardmachineworks/taxreporter/pkg/errors"
	"github.com/cardmachineworks/taxreporter/pkg/logger"
	"github.com/cardmachineworks/taxreporter/pkg/types"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
}

type stubReportsService struct {
	lastParams reports.GenerateParams
	result     *reports.GenerateResult
	err        error
}

func (s *stubReportsService) Aggregate(ctx context.Context, r reports.Range) (*reports.TaxReport, error) {
	return nil, nil
}

func (s *stubReportsService) Render(report *reports.TaxReport, format reports.Format, channel reports.Channel) (reports.Document, error) {
	return reports.Document{}, nil
}

func (s *stubReportsService) Generate(ctx context.Context, params reports.GenerateParams) (*reports.GenerateResult, error) {
	s.lastParams = params
	return s.result, s.err
}

type stubSettingsService struct {
	setting    *models.ReportSetting
	getErr     error
	lastUpdate settings.UpdateParams
	updateErr  error
}

func (s *stubSettingsService) Get(ctx context.Context) (*models.ReportSetting, error) {
	return s.setting, s.getErr
}

func (s *stubSettingsService) Update(ctx context.Context, params settings.UpdateParams) (*models.ReportSetting, error) {
	s.lastUpdate = params
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return s.setting, nil
}

func (s *stubSettingsService) RecordDispatch(ctx context.Context, rangeLabel string, at time.Time) error {
	return nil
}

func emptyResult() *reports.GenerateResult {
	return &reports.GenerateResult{
		Report: &reports.TaxReport{
			GeneratedAt:       time.Now().UTC(),
			Orders:            []reports.OrderSummary{},
			TotalNetTax:       decimal.Zero,
			TotalTaxableSales: decimal.Zero,
		},
		Display: reports.Document{ContentType: "text/html", Body: "<div></div>"},
	}
}

func postGenerate(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/reports/generate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestGenerateReportPassesRange(t *testing.T) {
	svc := &stubReportsService{result: emptyResult()}
	handler := GenerateReport(svc, nil, testLogger())

	rec := postGenerate(t, handler, `{"start_date":"2024-01-01","end_date":"2024-03-31","format":"detailed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if got := svc.lastParams.Range.String(); got != "2024-01-01/2024-03-31" {
		t.Fatalf("expected range 2024-01-01/2024-03-31 got %s", got)
	}
	if svc.lastParams.Format != reports.FormatDetailed {
		t.Fatalf("expected detailed format got %s", svc.lastParams.Format)
	}
	if svc.lastParams.SendEmail {
		t.Fatal("did not ask for email delivery")
	}
}

func TestGenerateReportDefaultsFromSettings(t *testing.T) {
	svc := &stubReportsService{result: emptyResult()}
	settingsSvc := &stubSettingsService{setting: &models.ReportSetting{
		DefaultFormat:  "detailed",
		RecipientEmail: "books@example.com",
	}}
	handler := GenerateReport(svc, settingsSvc, testLogger())

	rec := postGenerate(t, handler, `{"start_date":"2024-01-01","end_date":"2024-03-31","send_email":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastParams.Format != reports.FormatDetailed {
		t.Fatalf("expected stored format detailed got %s", svc.lastParams.Format)
	}
	if svc.lastParams.Recipient != "books@example.com" {
		t.Fatalf("expected stored recipient got %q", svc.lastParams.Recipient)
	}
	if !svc.lastParams.SendEmail {
		t.Fatal("expected email delivery requested")
	}
}

func TestGenerateReportExplicitRecipientWins(t *testing.T) {
	svc := &stubReportsService{result: emptyResult()}
	settingsSvc := &stubSettingsService{setting: &models.ReportSetting{
		DefaultFormat:  "summary",
		RecipientEmail: "books@example.com",
	}}
	handler := GenerateReport(svc, settingsSvc, testLogger())

	rec := postGenerate(t, handler, `{"start_date":"2024-01-01","end_date":"2024-03-31","send_email":true,"email_address":"cpa@example.com","format":"summary"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastParams.Recipient != "cpa@example.com" {
		t.Fatalf("expected explicit recipient got %q", svc.lastParams.Recipient)
	}
}

func TestGenerateReportRejectsMalformedDate(t *testing.T) {
	svc := &stubReportsService{result: emptyResult()}
	handler := GenerateReport(svc, nil, testLogger())

	rec := postGenerate(t, handler, `{"start_date":"01/01/2024","end_date":"2024-03-31"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("expected %s got %s", pkgerrors.CodeValidation, envelope.Error.Code)
	}
}

func TestGenerateReportRejectsUnknownFormat(t *testing.T) {
	svc := &stubReportsService{result: emptyResult()}
	handler := GenerateReport(svc, nil, testLogger())

	rec := postGenerate(t, handler, `{"start_date":"2024-01-01","end_date":"2024-03-31","format":"csv"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestGenerateReportSurfacesDependencyFailure(t *testing.T) {
	svc := &stubReportsService{err: pkgerrors.New(pkgerrors.CodeDependency, "fetching qualifying orders")}
	handler := GenerateReport(svc, nil, testLogger())

	rec := postGenerate(t, handler, `{"start_date":"2024-01-01","end_date":"2024-03-31"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", rec.Code)
	}
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeDependency) {
		t.Fatalf("expected %s got %s", pkgerrors.CodeDependency, envelope.Error.Code)
	}
}

func TestGenerateReportReturnsDeliveryWarning(t *testing.T) {
	result := emptyResult()
	result.DeliveryWarning = "sending report email: smtp timeout"
	svc := &stubReportsService{result: result}
	handler := GenerateReport(svc, nil, testLogger())

	rec := postGenerate(t, handler, `{"start_date":"2024-01-01","end_date":"2024-03-31","send_email":true,"email_address":"cpa@example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data reports.GenerateResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.EmailSent {
		t.Fatal("expected email_sent false")
	}
	if envelope.Data.DeliveryWarning == "" {
		t.Fatal("expected delivery warning in response")
	}
	if envelope.Data.Display.Body == "" {
		t.Fatal("expected display document to survive delivery failure")
	}
}
