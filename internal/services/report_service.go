package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"deliverypulse/internal/analytics"
	"deliverypulse/internal/dataset"
	"deliverypulse/internal/infrastructure"
)

// ErrDatasetNotLoaded is returned when a report is requested before any
// dataset has been loaded.
var ErrDatasetNotLoaded = errors.New("services: dataset not loaded")

// ReportRequest describes one report computation: which regions to keep and
// the inclusive purchase-date window. Empty Regions means all regions; zero
// From/To fall back to the dataset's full purchase-date span.
type ReportRequest struct {
	Regions []string  `json:"regions" validate:"dive,region"`
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
}

// Report bundles the computed views with the filter that produced them.
type Report struct {
	Request       ReportRequest    `json:"request"`
	FilteredRows  int              `json:"filtered_rows"`
	Views         *analytics.Views `json:"views"`
	PartialErrors []string         `json:"partial_errors,omitempty"`
	ComputedAt    time.Time        `json:"computed_at"`
}

// ReportService loads the order dataset and computes delivery reports.
// The loaded table is an immutable snapshot guarded for concurrent readers;
// Reload swaps it atomically.
type ReportService struct {
	datasetPath string
	engine      *analytics.Engine
	logger      *slog.Logger
	metrics     *infrastructure.BusinessMetrics

	mu       sync.RWMutex
	table    *analytics.Table
	dims     dataset.Dimensions
	loadedAt time.Time
}

// NewReportService creates a new report service. metrics may be nil.
func NewReportService(datasetPath string, engine *analytics.Engine, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		datasetPath: datasetPath,
		engine:      engine,
		logger:      logger.With(slog.String("component", "report_service")),
		metrics:     metrics,
	}
}

// Reload reads the dataset from disk and swaps the in-memory snapshot
func (s *ReportService) Reload(ctx context.Context) error {
	start := time.Now()

	table, err := dataset.Load(s.datasetPath, s.logger)
	if err != nil {
		return fmt.Errorf("load dataset %s: %w", s.datasetPath, err)
	}

	dims := dataset.Describe(table)

	s.mu.Lock()
	s.table = table
	s.dims = dims
	s.loadedAt = time.Now()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.DatasetRowsLoaded.Add(ctx, int64(table.Len()))
	}

	s.logger.InfoContext(ctx, "dataset loaded",
		slog.String("path", s.datasetPath),
		slog.Int("rows", table.Len()),
		slog.Int("regions", len(dims.Regions)),
		slog.Duration("duration", time.Since(start)),
	)

	return nil
}

// Loaded reports whether a dataset snapshot is available
func (s *ReportService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table != nil
}

// LoadedAt returns when the current snapshot was loaded
func (s *ReportService) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Dimensions returns the filterable domain of the loaded dataset
func (s *ReportService) Dimensions(ctx context.Context) (dataset.Dimensions, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.table == nil {
		return dataset.Dimensions{}, ErrDatasetNotLoaded
	}
	return s.dims, nil
}

// snapshot returns the current table and dimensions under the read lock
func (s *ReportService) snapshot() (*analytics.Table, dataset.Dimensions, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.table == nil {
		return nil, dataset.Dimensions{}, ErrDatasetNotLoaded
	}
	return s.table, s.dims, nil
}

// ComputeReport filters the dataset per the request and computes all views.
// Defaults are applied before filtering: empty Regions selects every region
// and zero dates widen to the dataset's full purchase-date span. Note that an
// explicitly empty region list cannot be expressed through this API; callers
// that need it should call the analytics filter directly.
func (s *ReportService) ComputeReport(ctx context.Context, req ReportRequest) (*Report, error) {
	table, dims, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	regions := req.Regions
	if len(regions) == 0 {
		regions = dims.Regions
	}

	dr := analytics.DateRange{Start: req.From, End: req.To}
	if dr.Start.IsZero() {
		dr.Start = dims.EarliestPurchase
	}
	if dr.End.IsZero() {
		dr.End = dims.LatestPurchase
	}

	start := time.Now()

	filtered, err := analytics.Filter(table, regions, dr)
	if err != nil {
		return nil, fmt.Errorf("filter orders: %w", err)
	}

	views, err := s.engine.ComputeAllViews(ctx, filtered)
	if err != nil {
		return nil, fmt.Errorf("compute views: %w", err)
	}

	duration := time.Since(start)
	infrastructure.RecordReportComputation(ctx, s.metrics, duration, len(views.Errors))

	var partial []string
	for name, viewErr := range views.Errors {
		partial = append(partial, fmt.Sprintf("%s: %v", name, viewErr))
	}

	s.logger.InfoContext(ctx, "report computed",
		slog.Int("input_rows", table.Len()),
		slog.Int("filtered_rows", filtered.Len()),
		slog.Int("regions", len(regions)),
		slog.Int("view_errors", len(partial)),
		slog.Duration("duration", duration),
	)

	return &Report{
		Request:       ReportRequest{Regions: regions, From: dr.Start, To: dr.End},
		FilteredRows:  filtered.Len(),
		Views:         views,
		PartialErrors: partial,
		ComputedAt:    time.Now(),
	}, nil
}
