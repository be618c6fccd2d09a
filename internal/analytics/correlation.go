package analytics

// featureValue reads the correlation feature c from a row.
func featureValue(o Order, c Column) NullFloat64 {
	switch c {
	case ColDeliveryDelay:
		return o.DeliveryDelay
	case ColProductWeightG:
		return o.ProductWeightG
	case ColProductLengthCM:
		return o.ProductLengthCM
	case ColProductHeightCM:
		return o.ProductHeightCM
	case ColProductWidthCM:
		return o.ProductWidthCM
	case ColVolume:
		return o.Volume
	default:
		return NullFloat64{}
	}
}

// ComputeCorrelationMatrix builds the symmetric 6x6 Pearson correlation
// matrix over the fixed feature set. Each pair's coefficient uses
// pairwise-complete observations: a row is excluded from a pair only when
// either of that pair's values is null, not when any feature in the row is
// null. A pair with fewer than two complete joint observations, or with zero
// variance in either feature, yields a missing cell. The diagonal is 1
// whenever the feature has at least two observations and nonzero variance.
func ComputeCorrelationMatrix(t *Table) (CorrelationMatrix, error) {
	if err := requireColumns(t, "correlation matrix", CorrelationFeatures[:]...); err != nil {
		return CorrelationMatrix{}, err
	}

	n := len(CorrelationFeatures)
	m := CorrelationMatrix{
		Features:     make([]string, n),
		Coefficients: make([][]NullFloat64, n),
	}
	for i, c := range CorrelationFeatures {
		m.Features[i] = string(c)
		m.Coefficients[i] = make([]NullFloat64, n)
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			var x, y []float64
			for _, row := range t.rows {
				xi := featureValue(row, CorrelationFeatures[i])
				yj := featureValue(row, CorrelationFeatures[j])
				if xi.Valid && yj.Valid {
					x = append(x, xi.Float64)
					y = append(y, yj.Float64)
				}
			}

			r := pearson(x, y)
			cell := NullFloat64{}
			if r == r { // not NaN
				if i == j {
					r = 1 // unit diagonal, exact
				}
				cell = Float(r)
			}
			m.Coefficients[i][j] = cell
			m.Coefficients[j][i] = cell
		}
	}

	return m, nil
}
