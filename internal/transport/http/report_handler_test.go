package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"deliverypulse/internal/analytics"
	"deliverypulse/internal/dataset"
	apierrors "deliverypulse/internal/errors"
	"deliverypulse/internal/services"
)

// MockReportService mocks the report service for handler tests
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Reload(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockReportService) Dimensions(ctx context.Context) (dataset.Dimensions, error) {
	args := m.Called(ctx)
	return args.Get(0).(dataset.Dimensions), args.Error(1)
}

func (m *MockReportService) ComputeReport(ctx context.Context, req services.ReportRequest) (*services.Report, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Report), args.Error(1)
}

func newTestReportHandler(t *testing.T, svc ReportServiceInterface) *ReportHandler {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewReportHandler(svc, t.TempDir(), logger, apierrors.NewErrorHandler(logger, false))
}

func sampleReport() *services.Report {
	views := &analytics.Views{
		Summary: analytics.SummaryMetrics{
			TotalOrders: 42,
			OnTimePct:   90,
			RegionCount: 2,
		},
		StatusDistribution: map[string]int{analytics.StatusOnTime: 38, analytics.StatusDelayed: 4},
	}
	return &services.Report{FilteredRows: 42, Views: views, ComputedAt: time.Now()}
}

func serveReport(h *ReportHandler, method, target string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Mount("/api/report", h.Routes())
	r.Post("/api/dataset/reload", h.ReloadDataset)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestGetReport(t *testing.T) {
	svc := new(MockReportService)
	svc.On("ComputeReport", mock.Anything, mock.MatchedBy(func(req services.ReportRequest) bool {
		return len(req.Regions) == 2 && req.Regions[0] == "SP" && !req.From.IsZero()
	})).Return(sampleReport(), nil)

	h := newTestReportHandler(t, svc)
	rec := serveReport(h, http.MethodGet, "/api/report?regions=SP,RJ&from=2017-01-01&to=2018-08-29")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status string          `json:"status"`
		Data   services.Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 42, resp.Data.Views.Summary.TotalOrders)
	svc.AssertExpectations(t)
}

func TestGetReportNoFilters(t *testing.T) {
	svc := new(MockReportService)
	svc.On("ComputeReport", mock.Anything, services.ReportRequest{}).Return(sampleReport(), nil)

	h := newTestReportHandler(t, svc)
	rec := serveReport(h, http.MethodGet, "/api/report")

	require.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestGetReportBadDate(t *testing.T) {
	svc := new(MockReportService)
	h := newTestReportHandler(t, svc)

	rec := serveReport(h, http.MethodGet, "/api/report?from=01-02-2018")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "ComputeReport")
}

func TestGetReportBadRegion(t *testing.T) {
	svc := new(MockReportService)
	h := newTestReportHandler(t, svc)

	rec := serveReport(h, http.MethodGet, "/api/report?regions=sp")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "two-letter state code")
	svc.AssertNotCalled(t, "ComputeReport")
}

func TestGetReportInvalidRange(t *testing.T) {
	svc := new(MockReportService)
	svc.On("ComputeReport", mock.Anything, mock.Anything).Return(nil, analytics.ErrInvalidRange)

	h := newTestReportHandler(t, svc)
	rec := serveReport(h, http.MethodGet, "/api/report?from=2018-06-01&to=2018-01-01")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid-date-range")
}

func TestGetReportNotLoaded(t *testing.T) {
	svc := new(MockReportService)
	svc.On("ComputeReport", mock.Anything, mock.Anything).Return(nil, services.ErrDatasetNotLoaded)

	h := newTestReportHandler(t, svc)
	rec := serveReport(h, http.MethodGet, "/api/report")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetDimensions(t *testing.T) {
	svc := new(MockReportService)
	svc.On("Dimensions", mock.Anything).Return(dataset.Dimensions{
		Regions:          []string{"RJ", "SP"},
		EarliestPurchase: time.Date(2016, 9, 4, 0, 0, 0, 0, time.UTC),
		LatestPurchase:   time.Date(2018, 8, 29, 0, 0, 0, 0, time.UTC),
	}, nil)

	h := newTestReportHandler(t, svc)
	rec := serveReport(h, http.MethodGet, "/api/report/dimensions")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data dataset.Dimensions `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"RJ", "SP"}, resp.Data.Regions)
}

func TestExportReportCSV(t *testing.T) {
	svc := new(MockReportService)
	svc.On("ComputeReport", mock.Anything, mock.Anything).Return(sampleReport(), nil)

	h := newTestReportHandler(t, svc)
	rec := serveReport(h, http.MethodPost, "/api/report/export?format=csv")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Format string   `json:"format"`
		Files  []string `json:"files"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "csv", resp.Format)
	assert.NotEmpty(t, resp.Files)
}

func TestExportReportUnknownFormat(t *testing.T) {
	svc := new(MockReportService)
	h := newTestReportHandler(t, svc)

	rec := serveReport(h, http.MethodPost, "/api/report/export?format=pdf")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "ComputeReport")
}

func TestReloadDataset(t *testing.T) {
	svc := new(MockReportService)
	svc.On("Reload", mock.Anything).Return(nil)
	svc.On("Dimensions", mock.Anything).Return(dataset.Dimensions{Regions: []string{"SP"}}, nil)

	h := newTestReportHandler(t, svc)
	rec := serveReport(h, http.MethodPost, "/api/dataset/reload")

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}
