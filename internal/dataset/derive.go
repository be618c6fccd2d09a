package dataset

import "deliverypulse/internal/analytics"

// Weight band thresholds in grams.
const (
	lightMaxWeightG  = 2000.0
	mediumMaxWeightG = 10000.0
)

// deriveDelay computes the delivery delay in days from the delivered and
// estimated date strings: positive means late. Missing or unparseable dates
// (undelivered orders) produce a missing delay.
func deriveDelay(delivered, estimated string) analytics.NullFloat64 {
	d, err := parseTime(delivered)
	if err != nil {
		return analytics.NullFloat64{}
	}
	e, err := parseTime(estimated)
	if err != nil {
		return analytics.NullFloat64{}
	}
	return analytics.Float(d.Sub(e).Hours() / 24)
}

// deriveStatus labels a known delay: strictly positive is delayed, zero or
// early is on time.
func deriveStatus(delay float64) string {
	if delay > 0 {
		return analytics.StatusDelayed
	}
	return analytics.StatusOnTime
}

// deriveWeightBand buckets the product weight into the ordered
// Light/Medium/Heavy domain. An unknown weight yields no band.
func deriveWeightBand(weightG analytics.NullFloat64) string {
	if !weightG.Valid {
		return ""
	}
	switch {
	case weightG.Float64 <= lightMaxWeightG:
		return "Light"
	case weightG.Float64 <= mediumMaxWeightG:
		return "Medium"
	default:
		return "Heavy"
	}
}

// deriveVolume computes length x height x width; missing any dimension
// yields a missing volume.
func deriveVolume(length, height, width analytics.NullFloat64) analytics.NullFloat64 {
	if !length.Valid || !height.Valid || !width.Valid {
		return analytics.NullFloat64{}
	}
	return analytics.Float(length.Float64 * height.Float64 * width.Float64)
}
