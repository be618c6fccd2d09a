package analytics

import "math"

// mean returns the arithmetic mean of values. The second result is false
// when values is empty, so callers can distinguish "no data" from a mean of
// zero.
func mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

// meanNull folds mean's ok flag into a NullFloat64.
func meanNull(values []float64) NullFloat64 {
	m, ok := mean(values)
	if !ok {
		return NullFloat64{}
	}
	return Float(m)
}

// pearson computes the Pearson linear correlation coefficient of two equal
// length series. It returns NaN when fewer than two observations are
// available or when either series has zero variance; a degenerate pair is an
// undefined coefficient, not an error.
func pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN()
	}

	meanX, _ := mean(x)
	meanY, _ := mean(y)

	var sumXY, sumXX, sumYY float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		sumXY += dx * dy
		sumXX += dx * dx
		sumYY += dy * dy
	}

	if sumXX == 0 || sumYY == 0 {
		return math.NaN()
	}

	r := sumXY / math.Sqrt(sumXX*sumYY)
	if math.IsInf(r, 0) {
		return math.NaN()
	}
	return r
}

// distinctCount counts distinct values produced by key over rows.
func distinctCount(rows []Order, key func(Order) string) int {
	seen := make(map[string]struct{})
	for _, row := range rows {
		seen[key(row)] = struct{}{}
	}
	return len(seen)
}
