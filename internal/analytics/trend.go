package analytics

import (
	"fmt"
	"sort"
)

// ComputeMonthlyTrend buckets rows by the year and month of the purchase
// timestamp and averages the non-null delivery delays per bucket. Buckets
// are returned in chronological order, the one view with a mandated
// ordering. Labels follow "YYYY-MM".
func ComputeMonthlyTrend(t *Table) ([]MonthlyPoint, error) {
	if err := requireColumns(t, "monthly trend", ColPurchaseTime, ColDeliveryDelay); err != nil {
		return nil, err
	}

	delays := make(map[int][]float64)
	for _, row := range t.rows {
		key := row.PurchaseTime.Year()*100 + int(row.PurchaseTime.Month())
		if _, seen := delays[key]; !seen {
			delays[key] = nil
		}
		if row.DeliveryDelay.Valid {
			delays[key] = append(delays[key], row.DeliveryDelay.Float64)
		}
	}

	keys := make([]int, 0, len(delays))
	for key := range delays {
		keys = append(keys, key)
	}
	sort.Ints(keys)

	result := make([]MonthlyPoint, 0, len(keys))
	for _, key := range keys {
		result = append(result, MonthlyPoint{
			Month:     fmt.Sprintf("%04d-%02d", key/100, key%100),
			MeanDelay: meanNull(delays[key]),
		})
	}
	return result, nil
}
