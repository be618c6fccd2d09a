package http

import (
	"context"

	"deliverypulse/internal/dataset"
	"deliverypulse/internal/services"
)

// ReportServiceInterface defines the report operations the handler needs
type ReportServiceInterface interface {
	Reload(ctx context.Context) error
	Dimensions(ctx context.Context) (dataset.Dimensions, error)
	ComputeReport(ctx context.Context, req services.ReportRequest) (*services.Report, error)
}
