package analytics

// ComputeDelayByRegion groups rows by customer state and averages the
// delivery delay per group over all non-null delays, late or not. Regions
// appear in order of first appearance in the table; no ordering is part of
// the contract, the consumer picks its own.
func ComputeDelayByRegion(t *Table) ([]RegionDelay, error) {
	if err := requireColumns(t, "delay by region", ColCustomerState, ColDeliveryDelay); err != nil {
		return nil, err
	}

	delays := make(map[string][]float64)
	var order []string
	for _, row := range t.rows {
		if _, seen := delays[row.CustomerState]; !seen {
			order = append(order, row.CustomerState)
			delays[row.CustomerState] = nil
		}
		if row.DeliveryDelay.Valid {
			delays[row.CustomerState] = append(delays[row.CustomerState], row.DeliveryDelay.Float64)
		}
	}

	result := make([]RegionDelay, 0, len(order))
	for _, region := range order {
		result = append(result, RegionDelay{
			Region:    region,
			MeanDelay: meanNull(delays[region]),
		})
	}
	return result, nil
}

// ComputeStatusDistribution counts rows per delivery status label. Only
// labels present in the table appear; absent labels are omitted, not
// zero-filled. Rows without a status label (undelivered orders) form no
// group.
func ComputeStatusDistribution(t *Table) (map[string]int, error) {
	if err := requireColumns(t, "status distribution", ColDeliveryStatus); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, row := range t.rows {
		if row.DeliveryStatus == "" {
			continue
		}
		counts[row.DeliveryStatus]++
	}
	return counts, nil
}
