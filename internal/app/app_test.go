package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deliverypulse/internal/analytics"
	"deliverypulse/internal/config"
	"deliverypulse/internal/infrastructure"
	"deliverypulse/internal/services"
)

const testOrders = `order_id,customer_state,order_purchase_timestamp,order_delivered_customer_date,order_estimated_delivery_date,product_category_name,product_weight_g,product_length_cm,product_height_cm,product_width_cm
o1,SP,2018-03-01 10:00:00,2018-03-05 14:00:00,2018-03-10 00:00:00,toys,500,20,10,5
o2,RJ,2018-03-02 09:00:00,2018-03-12 11:00:00,2018-03-08 00:00:00,electronics,1800,30,12,8
`

func newTestApplication(t *testing.T) *Application {
	t.Helper()

	dir := t.TempDir()
	datasetPath := filepath.Join(dir, "orders.csv")
	require.NoError(t, os.WriteFile(datasetPath, []byte(testOrders), 0644))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	providers, err := infrastructure.InitializeOTel(&infrastructure.OTelConfig{
		ServiceName:    "delivery-pulse-test",
		ServiceVersion: "test",
		Environment:    "test",
		TraceExporter:  "none",
		MetricExporter: "none",
		EnableTracing:  false,
		EnableMetrics:  false,
	}, logger)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Dataset.Path = datasetPath
	cfg.Dataset.OutputDir = filepath.Join(dir, "reports")

	engine := analytics.NewEngine(logger)
	engine.SetTopCategories(cfg.Analytics.TopCategories)

	reportService := services.NewReportService(datasetPath, engine, logger, nil)
	healthService := services.NewHealthService(Version, BuildTime, reportService, logger)

	app := &Application{
		Config:        cfg,
		ReportService: reportService,
		HealthService: healthService,
		Logger:        logger,
		OTelProviders: providers,
	}
	app.setupRouter()
	app.createServer()
	return app
}

func TestRouterLiveness(t *testing.T) {
	app := newTestApplication(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRouterReadinessTracksDatasetLoad(t *testing.T) {
	app := newTestApplication(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.NoError(t, app.ReportService.Reload(context.Background()))

	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterReportEndpoint(t *testing.T) {
	app := newTestApplication(t)
	require.NoError(t, app.ReportService.Reload(context.Background()))

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/report?regions=SP", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"success"`)
	assert.Contains(t, rec.Body.String(), "toys")
}

func TestRouterVersion(t *testing.T) {
	app := newTestApplication(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), Version)
}

func TestRouterUnknownRouteReturnsProblem(t *testing.T) {
	app := newTestApplication(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":404`)
	assert.Contains(t, rec.Body.String(), "/errors/not-found")
}

func TestRequestIDHeaderSet(t *testing.T) {
	app := newTestApplication(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health/live", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
