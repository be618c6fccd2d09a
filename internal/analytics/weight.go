package analytics

import "sort"

// canonical weight band order; labels outside the domain sort after it in
// first-appearance order.
var weightBandRank = map[string]int{
	"Light":  0,
	"Medium": 1,
	"Heavy":  2,
}

// ComputeWeightBreakdown groups rows by weight category and reports, per
// band, the mean of the non-null delivery delays and the count of distinct
// order IDs. Bands come out in Light/Medium/Heavy order; unknown labels
// follow in order of first appearance.
func ComputeWeightBreakdown(t *Table) ([]WeightBand, error) {
	if err := requireColumns(t, "weight breakdown",
		ColWeightCategory, ColDeliveryDelay, ColOrderID); err != nil {
		return nil, err
	}

	delays := make(map[string][]float64)
	orders := make(map[string]map[string]struct{})
	var order []string
	for _, row := range t.rows {
		band := row.WeightCategory
		if band == "" {
			// rows whose weight band could not be derived form no group
			continue
		}
		if _, seen := delays[band]; !seen {
			order = append(order, band)
			delays[band] = nil
			orders[band] = make(map[string]struct{})
		}
		if row.DeliveryDelay.Valid {
			delays[band] = append(delays[band], row.DeliveryDelay.Float64)
		}
		orders[band][row.OrderID] = struct{}{}
	}

	appearance := make(map[string]int, len(order))
	for i, band := range order {
		appearance[band] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		ri, iKnown := weightBandRank[order[i]]
		rj, jKnown := weightBandRank[order[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			return appearance[order[i]] < appearance[order[j]]
		}
	})

	result := make([]WeightBand, 0, len(order))
	for _, band := range order {
		result = append(result, WeightBand{
			Category:  band,
			MeanDelay: meanNull(delays[band]),
			Orders:    len(orders[band]),
		})
	}
	return result, nil
}
