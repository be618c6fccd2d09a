package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// View names, used as keys of Views.Errors and as export labels.
const (
	ViewSummary            = "summary"
	ViewDelayByRegion      = "delay_by_region"
	ViewStatusDistribution = "status_distribution"
	ViewTopDelayed         = "top_delayed_categories"
	ViewCorrelation        = "correlation_matrix"
	ViewWeightBreakdown    = "weight_breakdown"
	ViewMonthlyTrend       = "monthly_trend"
	ViewWeekdayProfile     = "weekday_profile"
)

// Engine computes the fixed battery of derived views over a filtered order
// table. It is stateless between invocations and safe for concurrent use;
// every invocation takes the table as an explicit parameter and never
// mutates it.
type Engine struct {
	logger        *slog.Logger
	topCategories int
}

// NewEngine creates an engine. A nil logger falls back to slog.Default().
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger:        logger,
		topCategories: DefaultTopCategories,
	}
}

// SetTopCategories overrides the ranking depth of the delayed-categories view.
func (e *Engine) SetTopCategories(n int) {
	if n > 0 {
		e.topCategories = n
	}
}

// ComputeAllViews evaluates the eight views over t. The views are mutually
// independent pure functions over the same immutable input, so they run
// concurrently, each writing a distinct result slot.
//
// A missing required column is a schema contract violation and aborts the
// whole invocation. Degenerate input (empty table, all-null columns) is not
// an error: each view returns well-defined empty or missing content so that
// one starving metric never suppresses the other seven. Any per-view error
// is recorded in Views.Errors under the view's name without affecting
// sibling views.
func (e *Engine) ComputeAllViews(ctx context.Context, t *Table) (*Views, error) {
	start := time.Now()
	e.logger.InfoContext(ctx, "computing analytics views", "rows", t.Len())

	// Validate the full schema up front: every view's required columns must
	// be present before any computation starts.
	if err := requireColumns(t, "compute views",
		ColOrderID, ColCustomerState, ColPurchaseTime,
		ColDeliveryDelay, ColDeliveryStatus, ColProductCategory,
		ColProductWeightG, ColProductLengthCM, ColProductHeightCM,
		ColProductWidthCM, ColVolume, ColWeightCategory, ColOrderWeekday,
	); err != nil {
		e.logger.ErrorContext(ctx, "schema validation failed", "error", err)
		return nil, fmt.Errorf("validate schema: %w", err)
	}

	views := &Views{}
	viewErrs := make([]error, 8)

	var g errgroup.Group
	g.Go(func() error { views.Summary, viewErrs[0] = ComputeSummary(t); return nil })
	g.Go(func() error { views.DelayByRegion, viewErrs[1] = ComputeDelayByRegion(t); return nil })
	g.Go(func() error { views.StatusDistribution, viewErrs[2] = ComputeStatusDistribution(t); return nil })
	g.Go(func() error {
		views.TopDelayedCategories, viewErrs[3] = ComputeTopDelayedCategories(t, e.topCategories)
		return nil
	})
	g.Go(func() error { views.Correlation, viewErrs[4] = ComputeCorrelationMatrix(t); return nil })
	g.Go(func() error { views.WeightBreakdown, viewErrs[5] = ComputeWeightBreakdown(t); return nil })
	g.Go(func() error { views.MonthlyTrend, viewErrs[6] = ComputeMonthlyTrend(t); return nil })
	g.Go(func() error { views.WeekdayProfile, viewErrs[7] = ComputeWeekdayProfile(t); return nil })

	// Goroutines only signal completion; per-view errors live in viewErrs.
	_ = g.Wait()

	names := [8]string{
		ViewSummary, ViewDelayByRegion, ViewStatusDistribution, ViewTopDelayed,
		ViewCorrelation, ViewWeightBreakdown, ViewMonthlyTrend, ViewWeekdayProfile,
	}
	for i, err := range viewErrs {
		if err != nil {
			if views.Errors == nil {
				views.Errors = make(map[string]error)
			}
			views.Errors[names[i]] = err
			e.logger.WarnContext(ctx, "view computation failed",
				"view", names[i],
				"error", err,
			)
		}
	}

	e.logger.InfoContext(ctx, "analytics views computed",
		"duration", time.Since(start),
		"rows", t.Len(),
		"failed_views", len(views.Errors),
	)
	return views, nil
}
