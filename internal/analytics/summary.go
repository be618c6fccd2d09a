package analytics

// ComputeSummary derives the headline metrics of a filtered table.
//
// TotalOrders counts distinct order IDs (one order may span several product
// rows). OnTimePct is the share of rows labeled on time, over the full row
// count, and is 0 for an empty table rather than NaN. AvgDelayDays averages
// delivery delay over rows with a strictly positive delay only; when no such
// row exists it is reported missing, which is distinct from an average of
// zero. This inclusion rule is intentionally narrower than the per-group
// delay views, which average all non-null delays.
func ComputeSummary(t *Table) (SummaryMetrics, error) {
	if err := requireColumns(t, "summary",
		ColOrderID, ColCustomerState, ColDeliveryDelay, ColDeliveryStatus); err != nil {
		return SummaryMetrics{}, err
	}

	var s SummaryMetrics
	s.TotalOrders = distinctCount(t.rows, func(o Order) string { return o.OrderID })
	s.RegionCount = distinctCount(t.rows, func(o Order) string { return o.CustomerState })

	if len(t.rows) > 0 {
		onTime := 0
		for _, row := range t.rows {
			if row.DeliveryStatus == StatusOnTime {
				onTime++
			}
		}
		s.OnTimePct = float64(onTime) / float64(len(t.rows)) * 100
	}

	var late []float64
	for _, row := range t.rows {
		if row.DeliveryDelay.Valid && row.DeliveryDelay.Float64 > 0 {
			late = append(late, row.DeliveryDelay.Float64)
		}
	}
	s.AvgDelayDays = meanNull(late)

	return s, nil
}
