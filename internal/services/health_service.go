package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	reports   *ReportService
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Dataset   DatasetHealth          `json:"dataset"`
}

// DatasetHealth reports the state of the loaded dataset snapshot
type DatasetHealth struct {
	Loaded   bool      `json:"loaded"`
	LoadedAt time.Time `json:"loaded_at,omitempty"`
	Rows     int       `json:"rows,omitempty"`
	Regions  int       `json:"regions,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version, buildTime string, reports *ReportService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		reports:   reports,
		startTime: time.Now(),
		logger:    logger,
	}
}

// Check returns the current health status. The service is degraded rather
// than down when the dataset has not loaded: the process serves its health
// and metrics endpoints regardless.
func (s *HealthService) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   s.version,
		Runtime: map[string]interface{}{
			"go_version":     runtime.Version(),
			"os":             runtime.GOOS,
			"arch":           runtime.GOARCH,
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": time.Since(s.startTime).Seconds(),
		},
	}

	if s.reports != nil && s.reports.Loaded() {
		dims, err := s.reports.Dimensions(ctx)
		status.Dataset = DatasetHealth{
			Loaded:   true,
			LoadedAt: s.reports.LoadedAt(),
			Regions:  len(dims.Regions),
		}
		if err == nil {
			if table, _, snapErr := s.reports.snapshot(); snapErr == nil {
				status.Dataset.Rows = table.Len()
			}
		}
	} else {
		status.Status = "degraded"
		status.Dataset = DatasetHealth{Loaded: false}
	}

	return status
}
