package analytics

import "sort"

// DefaultTopCategories is the ranking depth of the delayed-categories view.
const DefaultTopCategories = 10

// ComputeTopDelayedCategories groups rows by product category, averages the
// non-null delivery delays per group, and returns the limit worst categories
// sorted by mean delay descending. The sort is stable: ties keep the
// relative order in which the categories first appear in the table. Rows
// with an unknown category and groups whose delays are all null are excluded
// from the ranking, since an undefined mean cannot be ranked.
func ComputeTopDelayedCategories(t *Table, limit int) ([]CategoryDelay, error) {
	if err := requireColumns(t, "top delayed categories", ColProductCategory, ColDeliveryDelay); err != nil {
		return nil, err
	}

	delays := make(map[string][]float64)
	var order []string
	for _, row := range t.rows {
		if !row.ProductCategory.Valid {
			continue
		}
		name := row.ProductCategory.String
		if _, seen := delays[name]; !seen {
			order = append(order, name)
			delays[name] = nil
		}
		if row.DeliveryDelay.Valid {
			delays[name] = append(delays[name], row.DeliveryDelay.Float64)
		}
	}

	ranked := make([]CategoryDelay, 0, len(order))
	for _, name := range order {
		m, ok := mean(delays[name])
		if !ok {
			continue
		}
		ranked = append(ranked, CategoryDelay{Category: name, MeanDelay: m})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MeanDelay > ranked[j].MeanDelay
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
