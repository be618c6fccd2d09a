package exporter

import (
	"fmt"
	"sort"

	"deliverypulse/internal/analytics"
)

// placeholder rendered for metrics the engine reported as missing.
const naPlaceholder = "N/A"

// formatFloat formats a float with exactly two decimal places, so values
// like 13.4 appear as 13.40 across every export.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatNullFloat renders a missing value as the N/A placeholder.
func formatNullFloat(n analytics.NullFloat64) string {
	if !n.Valid {
		return naPlaceholder
	}
	return formatFloat(n.Float64)
}

func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// statusLabels returns the distribution's labels in deterministic order.
func statusLabels(dist map[string]int) []string {
	labels := make([]string, 0, len(dist))
	for label := range dist {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// viewTable is a view flattened into rows for tabular output.
type viewTable struct {
	Name    string
	Headers []string
	Records [][]string
}

// flattenViews converts the view bundle into per-view tables, in a stable
// export order.
func flattenViews(views *analytics.Views) []viewTable {
	summary := viewTable{
		Name:    analytics.ViewSummary,
		Headers: []string{"Metric", "Value"},
		Records: [][]string{
			{"TotalOrders", formatInt(views.Summary.TotalOrders)},
			{"OnTimePct", formatFloat(views.Summary.OnTimePct)},
			{"AvgDelayDays", formatNullFloat(views.Summary.AvgDelayDays)},
			{"RegionCount", formatInt(views.Summary.RegionCount)},
		},
	}

	region := viewTable{
		Name:    analytics.ViewDelayByRegion,
		Headers: []string{"Region", "MeanDelay"},
	}
	for _, rd := range views.DelayByRegion {
		region.Records = append(region.Records, []string{rd.Region, formatNullFloat(rd.MeanDelay)})
	}

	status := viewTable{
		Name:    analytics.ViewStatusDistribution,
		Headers: []string{"Status", "Count"},
	}
	for _, label := range statusLabels(views.StatusDistribution) {
		status.Records = append(status.Records, []string{label, formatInt(views.StatusDistribution[label])})
	}

	top := viewTable{
		Name:    analytics.ViewTopDelayed,
		Headers: []string{"Category", "MeanDelay"},
	}
	for _, cd := range views.TopDelayedCategories {
		top.Records = append(top.Records, []string{cd.Category, formatFloat(cd.MeanDelay)})
	}

	corr := viewTable{
		Name:    analytics.ViewCorrelation,
		Headers: append([]string{"Feature"}, views.Correlation.Features...),
	}
	for i, feature := range views.Correlation.Features {
		record := make([]string, 0, len(views.Correlation.Features)+1)
		record = append(record, feature)
		for _, cell := range views.Correlation.Coefficients[i] {
			record = append(record, formatNullFloat(cell))
		}
		corr.Records = append(corr.Records, record)
	}

	weight := viewTable{
		Name:    analytics.ViewWeightBreakdown,
		Headers: []string{"WeightCategory", "MeanDelay", "Orders"},
	}
	for _, wb := range views.WeightBreakdown {
		weight.Records = append(weight.Records, []string{
			wb.Category, formatNullFloat(wb.MeanDelay), formatInt(wb.Orders),
		})
	}

	trend := viewTable{
		Name:    analytics.ViewMonthlyTrend,
		Headers: []string{"Month", "MeanDelay"},
	}
	for _, mp := range views.MonthlyTrend {
		trend.Records = append(trend.Records, []string{mp.Month, formatNullFloat(mp.MeanDelay)})
	}

	weekday := viewTable{
		Name:    analytics.ViewWeekdayProfile,
		Headers: []string{"Weekday", "MeanDelay"},
	}
	for _, wp := range views.WeekdayProfile {
		weekday.Records = append(weekday.Records, []string{wp.Weekday, formatNullFloat(wp.MeanDelay)})
	}

	return []viewTable{summary, region, status, top, corr, weight, trend, weekday}
}
