package analytics

import (
	"encoding/json"
	"time"
)

// Column identifies a field of the order schema by its canonical dataset name.
type Column string

const (
	ColOrderID         Column = "order_id"
	ColCustomerState   Column = "customer_state"
	ColPurchaseTime    Column = "order_purchase_timestamp"
	ColDeliveryDelay   Column = "delivery_delay"
	ColDeliveryStatus  Column = "delivery_status"
	ColProductCategory Column = "product_category_name"
	ColProductWeightG  Column = "product_weight_g"
	ColProductLengthCM Column = "product_length_cm"
	ColProductHeightCM Column = "product_height_cm"
	ColProductWidthCM  Column = "product_width_cm"
	ColVolume          Column = "volume"
	ColWeightCategory  Column = "weight_category"
	ColOrderWeekday    Column = "order_weekday"
)

// Delivery status labels. The two labels are mutually exclusive per row.
const (
	StatusOnTime  = "On Time"
	StatusDelayed = "Delayed"
)

// Weekdays is the fixed grouping domain for the weekday profile, in the
// order the profile is reported.
var Weekdays = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// CorrelationFeatures is the fixed feature set of the correlation matrix,
// in row/column order.
var CorrelationFeatures = [6]Column{
	ColDeliveryDelay,
	ColProductWeightG,
	ColProductLengthCM,
	ColProductHeightCM,
	ColProductWidthCM,
	ColVolume,
}

// NullFloat64 is a float64 that may be missing. It follows the database/sql
// convention: Valid is false when the value is absent. Missing values marshal
// to JSON null so the presentation layer can render a placeholder instead of
// a fabricated zero.
type NullFloat64 struct {
	Float64 float64
	Valid   bool
}

// Float returns a valid NullFloat64 carrying v.
func Float(v float64) NullFloat64 {
	return NullFloat64{Float64: v, Valid: true}
}

// MarshalJSON implements json.Marshaler.
func (n NullFloat64) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullFloat64) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		n.Float64, n.Valid = 0, false
		return nil
	}
	if err := json.Unmarshal(data, &n.Float64); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// NullString is a string that may be missing, with the same JSON behavior
// as NullFloat64.
type NullString struct {
	String string
	Valid  bool
}

// Str returns a valid NullString carrying s.
func Str(s string) NullString {
	return NullString{String: s, Valid: true}
}

// MarshalJSON implements json.Marshaler.
func (n NullString) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.String)
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		n.String, n.Valid = "", false
		return nil
	}
	if err := json.Unmarshal(data, &n.String); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// Order is one row of the order table. One order may span multiple product
// rows, so OrderID is not unique; distinct-order counts must deduplicate.
type Order struct {
	OrderID         string      `json:"order_id"`
	CustomerState   string      `json:"customer_state"`
	PurchaseTime    time.Time   `json:"order_purchase_timestamp"`
	DeliveryDelay   NullFloat64 `json:"delivery_delay"`
	DeliveryStatus  string      `json:"delivery_status"`
	ProductCategory NullString  `json:"product_category_name"`
	ProductWeightG  NullFloat64 `json:"product_weight_g"`
	ProductLengthCM NullFloat64 `json:"product_length_cm"`
	ProductHeightCM NullFloat64 `json:"product_height_cm"`
	ProductWidthCM  NullFloat64 `json:"product_width_cm"`
	Volume          NullFloat64 `json:"volume"`
	WeightCategory  string      `json:"weight_category"`
	OrderWeekday    string      `json:"order_weekday"`
}

// ColumnSet records which schema columns the data source materialized.
type ColumnSet map[Column]struct{}

// NewColumnSet builds a ColumnSet from the given columns.
func NewColumnSet(cols ...Column) ColumnSet {
	set := make(ColumnSet, len(cols))
	for _, c := range cols {
		set[c] = struct{}{}
	}
	return set
}

// AllColumns returns a ColumnSet covering the full order schema.
func AllColumns() ColumnSet {
	return NewColumnSet(
		ColOrderID, ColCustomerState, ColPurchaseTime,
		ColDeliveryDelay, ColDeliveryStatus, ColProductCategory,
		ColProductWeightG, ColProductLengthCM, ColProductHeightCM,
		ColProductWidthCM, ColVolume, ColWeightCategory, ColOrderWeekday,
	)
}

// Has reports whether the set contains c.
func (s ColumnSet) Has(c Column) bool {
	_, ok := s[c]
	return ok
}

// Table is an immutable order-table snapshot: rows plus the set of schema
// columns the source actually provided. The filter stage and every view
// computation treat a Table as read-only.
type Table struct {
	columns ColumnSet
	rows    []Order
}

// NewTable creates a table over rows with the given column set. The caller
// must not mutate rows after handing them over.
func NewTable(rows []Order, columns ColumnSet) *Table {
	return &Table{columns: columns, rows: rows}
}

// Len returns the row count.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns the backing rows. Callers must treat the slice as read-only.
func (t *Table) Rows() []Order {
	return t.rows
}

// Columns returns the table's column set.
func (t *Table) Columns() ColumnSet {
	return t.columns
}

// HasColumn reports whether the source materialized column c.
func (t *Table) HasColumn(c Column) bool {
	return t.columns.Has(c)
}

// DateRange is an inclusive calendar-date range. Time-of-day on the bounds
// and on compared timestamps is ignored.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate returns ErrInvalidRange when the start date falls after the end date.
func (r DateRange) Validate() error {
	if civilDate(r.Start).After(civilDate(r.End)) {
		return ErrInvalidRange
	}
	return nil
}

// Contains reports whether the calendar date of ts lies within the range,
// inclusive on both ends.
func (r DateRange) Contains(ts time.Time) bool {
	d := civilDate(ts)
	return !d.Before(civilDate(r.Start)) && !d.After(civilDate(r.End))
}

// civilDate truncates a timestamp to its wall-clock calendar date.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SummaryMetrics is the headline view: distinct orders, on-time share,
// average delay of late orders, and distinct regions covered.
// AvgDelayDays is missing (not zero) when no row has a positive delay.
type SummaryMetrics struct {
	TotalOrders  int         `json:"total_orders"`
	OnTimePct    float64     `json:"on_time_pct"`
	AvgDelayDays NullFloat64 `json:"avg_delay_days"`
	RegionCount  int         `json:"region_count"`
}

// RegionDelay is the mean delivery delay for one region. MeanDelay is
// missing when every delay in the region is null.
type RegionDelay struct {
	Region    string      `json:"region"`
	MeanDelay NullFloat64 `json:"mean_delay"`
}

// CategoryDelay is the mean delivery delay for one product category.
// Only categories with a defined mean are ranked, so MeanDelay is plain.
type CategoryDelay struct {
	Category  string  `json:"category"`
	MeanDelay float64 `json:"mean_delay"`
}

// CorrelationMatrix holds pairwise Pearson coefficients over the fixed
// feature set, in CorrelationFeatures order. A cell is missing when a pair
// has fewer than two complete joint observations or zero variance in either
// feature.
type CorrelationMatrix struct {
	Features     []string        `json:"features"`
	Coefficients [][]NullFloat64 `json:"coefficients"`
}

// WeightBand is the delay and distinct-order count for one weight category.
type WeightBand struct {
	Category  string      `json:"category"`
	MeanDelay NullFloat64 `json:"mean_delay"`
	Orders    int         `json:"orders"`
}

// MonthlyPoint is one chronological bucket of the delay trend.
// Month is formatted "YYYY-MM".
type MonthlyPoint struct {
	Month     string      `json:"month"`
	MeanDelay NullFloat64 `json:"mean_delay"`
}

// WeekdayPoint is one entry of the weekday profile. The profile always has
// exactly seven entries in Weekdays order; days without observations carry a
// missing mean.
type WeekdayPoint struct {
	Weekday   string      `json:"weekday"`
	MeanDelay NullFloat64 `json:"mean_delay"`
}

// Views bundles the eight derived views over one filtered table. Each view
// is computed independently; Errors records any per-view failure without
// affecting sibling views.
type Views struct {
	Summary              SummaryMetrics    `json:"summary"`
	DelayByRegion        []RegionDelay     `json:"delay_by_region"`
	StatusDistribution   map[string]int    `json:"status_distribution"`
	TopDelayedCategories []CategoryDelay   `json:"top_delayed_categories"`
	Correlation          CorrelationMatrix `json:"correlation_matrix"`
	WeightBreakdown      []WeightBand      `json:"weight_breakdown"`
	MonthlyTrend         []MonthlyPoint    `json:"monthly_trend"`
	WeekdayProfile       []WeekdayPoint    `json:"weekday_profile"`

	// Errors maps a view name to its computation error, when any.
	Errors map[string]error `json:"-"`
}
