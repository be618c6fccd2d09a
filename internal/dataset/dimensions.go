package dataset

import (
	"sort"
	"time"

	"deliverypulse/internal/analytics"
)

// Dimensions describes the filterable domain of a loaded table: the distinct
// regions present and the purchase-date bounds. Callers that mean "no
// filtering" pass Regions and a range covering [EarliestPurchase,
// LatestPurchase] to the filter stage.
type Dimensions struct {
	Regions          []string  `json:"regions"`
	EarliestPurchase time.Time `json:"earliest_purchase"`
	LatestPurchase   time.Time `json:"latest_purchase"`
}

// Describe scans a table for its filter dimensions. Regions come out sorted.
func Describe(t *analytics.Table) Dimensions {
	var dims Dimensions
	seen := make(map[string]struct{})

	for _, row := range t.Rows() {
		if _, ok := seen[row.CustomerState]; !ok {
			seen[row.CustomerState] = struct{}{}
			dims.Regions = append(dims.Regions, row.CustomerState)
		}
		if dims.EarliestPurchase.IsZero() || row.PurchaseTime.Before(dims.EarliestPurchase) {
			dims.EarliestPurchase = row.PurchaseTime
		}
		if row.PurchaseTime.After(dims.LatestPurchase) {
			dims.LatestPurchase = row.PurchaseTime
		}
	}

	sort.Strings(dims.Regions)
	return dims
}

// FullRange returns the date range spanning every purchase in the table.
func (d Dimensions) FullRange() analytics.DateRange {
	return analytics.DateRange{Start: d.EarliestPurchase, End: d.LatestPurchase}
}
