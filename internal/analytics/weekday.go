package analytics

// ComputeWeekdayProfile groups rows by purchase weekday and averages the
// non-null delivery delays per day, reindexed onto the fixed Monday..Sunday
// domain. The result always has exactly seven entries in that order; a day
// without observations carries a missing mean so fixed-axis consumers keep
// positional alignment. Rows whose weekday label falls outside the domain
// are dropped before grouping rather than treated as an error.
func ComputeWeekdayProfile(t *Table) ([]WeekdayPoint, error) {
	if err := requireColumns(t, "weekday profile", ColOrderWeekday, ColDeliveryDelay); err != nil {
		return nil, err
	}

	domain := make(map[string]int, len(Weekdays))
	for i, day := range Weekdays {
		domain[day] = i
	}

	delays := make([][]float64, len(Weekdays))
	observed := make([]bool, len(Weekdays))
	for _, row := range t.rows {
		i, ok := domain[row.OrderWeekday]
		if !ok {
			continue
		}
		observed[i] = true
		if row.DeliveryDelay.Valid {
			delays[i] = append(delays[i], row.DeliveryDelay.Float64)
		}
	}

	profile := make([]WeekdayPoint, len(Weekdays))
	for i, day := range Weekdays {
		point := WeekdayPoint{Weekday: day}
		if observed[i] {
			point.MeanDelay = meanNull(delays[i])
		}
		profile[i] = point
	}
	return profile, nil
}
