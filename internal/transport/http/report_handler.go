package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "deliverypulse/internal/errors"
	"deliverypulse/internal/exporter"
	"deliverypulse/internal/middleware"
	"deliverypulse/internal/services"
)

// ReportHandler handles report-related HTTP requests
type ReportHandler struct {
	service      ReportServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	query        *middleware.QueryParamValidator
	validate     *middleware.ValidationMiddleware
	outputDir    string
}

// NewReportHandler creates a new report handler with RFC 7807 error handling
func NewReportHandler(service ReportServiceInterface, outputDir string, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	return &ReportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
		query:        middleware.NewQueryParamValidator(logger, errorHandler),
		validate:     middleware.NewValidationMiddleware(logger, errorHandler),
		outputDir:    outputDir,
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetReport)
	r.Get("/dimensions", h.GetDimensions)
	r.Post("/export", h.ExportReport)

	return r
}

// parseRequest builds a ReportRequest from query parameters. Returns false
// when validation already wrote an error response.
func (h *ReportHandler) parseRequest(w http.ResponseWriter, r *http.Request) (services.ReportRequest, bool) {
	var req services.ReportRequest

	if raw := r.URL.Query().Get("regions"); raw != "" {
		for _, region := range strings.Split(raw, ",") {
			region = strings.TrimSpace(region)
			if region == "" {
				continue
			}
			req.Regions = append(req.Regions, region)
		}
	}

	from, present, ok := h.query.ValidateDate(w, r, "from")
	if !ok {
		return req, false
	}
	if present {
		req.From = from
	}

	to, present, ok := h.query.ValidateDate(w, r, "to")
	if !ok {
		return req, false
	}
	if present {
		req.To = to
	}

	// The region tag on ReportRequest enforces two-letter uppercase codes.
	if err := h.validate.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return req, false
	}

	return req, true
}

// GetReport handles GET /api/report
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseRequest(w, r)
	if !ok {
		return
	}

	report, err := h.service.ComputeReport(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   report,
	})
}

// GetDimensions handles GET /api/report/dimensions
func (h *ReportHandler) GetDimensions(w http.ResponseWriter, r *http.Request) {
	dims, err := h.service.Dimensions(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   dims,
	})
}

// ExportReport handles POST /api/report/export. The computed views are
// written server-side to the configured output directory in the requested
// format and the resulting paths are returned.
func (h *ReportHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseRequest(w, r)
	if !ok {
		return
	}

	format, ok := h.query.ValidateEnum(w, r, "format", []string{"csv", "xlsx", "json"}, "csv")
	if !ok {
		return
	}

	report, err := h.service.ComputeReport(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	if err := os.MkdirAll(h.outputDir, 0755); err != nil {
		h.errorHandler.HandleError(w, r, fmt.Errorf("create output dir: %w", err))
		return
	}

	var paths []string
	switch format {
	case "csv":
		paths, err = exporter.NewCSVWriter(h.logger).WriteViews(report.Views, h.outputDir)
	case "xlsx":
		path := filepath.Join(h.outputDir, fmt.Sprintf("delivery_report_%s.xlsx", time.Now().Format("20060102_150405")))
		err = exporter.NewExcelWriter(h.logger).WriteWorkbook(report.Views, path)
		paths = []string{path}
	case "json":
		path := filepath.Join(h.outputDir, fmt.Sprintf("delivery_report_%s.json", time.Now().Format("20060102_150405")))
		err = exporter.WriteJSON(report.Views, path)
		paths = []string{path}
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, fmt.Errorf("export report: %w", err))
		return
	}

	h.logger.InfoContext(r.Context(), "report exported",
		slog.String("format", format),
		slog.Int("files", len(paths)),
	)

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"format": format,
		"files":  paths,
	})
}

// ReloadDataset handles POST /api/dataset/reload
func (h *ReportHandler) ReloadDataset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reload(r.Context()); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	dims, err := h.service.Dimensions(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   dims,
	})
}

// handleServiceError maps service errors to API errors
func (h *ReportHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrDatasetNotLoaded) {
		h.errorHandler.HandleError(w, r, apierrors.New(
			http.StatusServiceUnavailable,
			"SERVICE_UNAVAILABLE",
			"Dataset has not been loaded yet",
		))
		return
	}
	h.errorHandler.HandleError(w, r, err)
}
