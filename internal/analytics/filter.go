package analytics

// Filter narrows a table to rows whose customer state is in regions and
// whose purchase date lies within the inclusive date range. It is a pure,
// stable narrowing: row order is preserved, no row is fabricated or
// duplicated, and the input table is never mutated.
//
// An empty region set yields an empty result, not "select all"; callers that
// mean "no region filtering" must pass the full region domain explicitly.
func Filter(t *Table, regions []string, dr DateRange) (*Table, error) {
	if err := dr.Validate(); err != nil {
		return nil, err
	}
	if err := requireColumns(t, "filter", ColCustomerState, ColPurchaseTime); err != nil {
		return nil, err
	}

	selected := make(map[string]struct{}, len(regions))
	for _, r := range regions {
		selected[r] = struct{}{}
	}

	var out []Order
	for _, row := range t.rows {
		if _, ok := selected[row.CustomerState]; !ok {
			continue
		}
		if !dr.Contains(row.PurchaseTime) {
			continue
		}
		out = append(out, row)
	}

	return &Table{columns: t.columns, rows: out}, nil
}
