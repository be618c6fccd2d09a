package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"deliverypulse/internal/analytics"
)

// acceptable timestamp layouts, tried in order.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
}

// columnIndices holds the positions of recognized columns in the CSV header.
// -1 means the column is absent from the source.
type columnIndices struct {
	orderID       int
	customerState int
	purchaseTime  int
	deliveredDate int
	estimatedDate int
	delay         int
	status        int
	category      int
	weightG       int
	lengthCM      int
	heightCM      int
	widthCM       int
	volume        int
	weightBand    int
	weekday       int
}

// Load reads an order CSV from path. See LoadFrom.
func Load(path string, logger *slog.Logger) (*analytics.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	table, err := LoadFrom(file, logger)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}
	return table, nil
}

// LoadFrom reads an order table from r. Columns are discovered by header
// name; rows with an unparseable purchase timestamp are skipped rather than
// failing the whole load. Derived columns absent from the source are
// computed from their inputs when those are present, and the returned
// table's column set records exactly what could be materialized.
func LoadFrom(r io.Reader, logger *slog.Logger) (*analytics.Table, error) {
	if logger == nil {
		logger = slog.Default()
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := findColumnIndices(header)
	if err := cols.validate(); err != nil {
		return nil, err
	}

	var rows []analytics.Order
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}

		row, ok := cols.parseRow(record)
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, row)
	}

	if skipped > 0 {
		logger.Warn("skipped unparseable dataset rows", "skipped", skipped, "loaded", len(rows))
	}
	logger.Info("dataset loaded", "rows", len(rows), "columns", len(header))

	return analytics.NewTable(rows, cols.columnSet()), nil
}

// findColumnIndices maps the canonical dataset column names onto header
// positions. Header cells are normalized: surrounding whitespace and a UTF-8
// BOM are stripped and matching is case-insensitive.
func findColumnIndices(header []string) columnIndices {
	cols := columnIndices{
		orderID: -1, customerState: -1, purchaseTime: -1,
		deliveredDate: -1, estimatedDate: -1, delay: -1, status: -1,
		category: -1, weightG: -1, lengthCM: -1, heightCM: -1, widthCM: -1,
		volume: -1, weightBand: -1, weekday: -1,
	}

	for i, col := range header {
		clean := strings.TrimSpace(strings.TrimPrefix(col, "\uFEFF"))
		switch strings.ToLower(clean) {
		case "order_id":
			cols.orderID = i
		case "customer_state":
			cols.customerState = i
		case "order_purchase_timestamp":
			cols.purchaseTime = i
		case "order_delivered_customer_date":
			cols.deliveredDate = i
		case "order_estimated_delivery_date":
			cols.estimatedDate = i
		case "delivery_delay":
			cols.delay = i
		case "delivery_status":
			cols.status = i
		case "product_category_name":
			cols.category = i
		case "product_weight_g":
			cols.weightG = i
		case "product_length_cm":
			cols.lengthCM = i
		case "product_height_cm":
			cols.heightCM = i
		case "product_width_cm":
			cols.widthCM = i
		case "volume":
			cols.volume = i
		case "weight_category":
			cols.weightBand = i
		case "order_weekday":
			cols.weekday = i
		}
	}

	return cols
}

// validate fails fast when the columns no loader heuristic can substitute
// are absent.
func (c columnIndices) validate() error {
	var missing []string
	if c.orderID == -1 {
		missing = append(missing, "order_id")
	}
	if c.customerState == -1 {
		missing = append(missing, "customer_state")
	}
	if c.purchaseTime == -1 {
		missing = append(missing, "order_purchase_timestamp")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required columns not found: %s", strings.Join(missing, ", "))
	}
	return nil
}

// columnSet reports which engine schema columns the load materializes,
// counting derived columns whose inputs are present.
func (c columnIndices) columnSet() analytics.ColumnSet {
	set := analytics.NewColumnSet(
		analytics.ColOrderID,
		analytics.ColCustomerState,
		analytics.ColPurchaseTime,
		analytics.ColOrderWeekday, // always derivable from the purchase timestamp
	)

	hasDelay := c.delay != -1 || (c.deliveredDate != -1 && c.estimatedDate != -1)
	if hasDelay {
		set[analytics.ColDeliveryDelay] = struct{}{}
	}
	if c.status != -1 || hasDelay {
		set[analytics.ColDeliveryStatus] = struct{}{}
	}
	if c.category != -1 {
		set[analytics.ColProductCategory] = struct{}{}
	}
	if c.weightG != -1 {
		set[analytics.ColProductWeightG] = struct{}{}
	}
	if c.lengthCM != -1 {
		set[analytics.ColProductLengthCM] = struct{}{}
	}
	if c.heightCM != -1 {
		set[analytics.ColProductHeightCM] = struct{}{}
	}
	if c.widthCM != -1 {
		set[analytics.ColProductWidthCM] = struct{}{}
	}
	if c.volume != -1 || (c.lengthCM != -1 && c.heightCM != -1 && c.widthCM != -1) {
		set[analytics.ColVolume] = struct{}{}
	}
	if c.weightBand != -1 || c.weightG != -1 {
		set[analytics.ColWeightCategory] = struct{}{}
	}

	return set
}

// parseRow converts one CSV record into an order row. It returns ok=false
// when the row is unusable (too short, or no parseable purchase timestamp).
func (c columnIndices) parseRow(record []string) (analytics.Order, bool) {
	get := func(idx int) string {
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	purchase, err := parseTime(get(c.purchaseTime))
	if err != nil {
		return analytics.Order{}, false
	}

	row := analytics.Order{
		OrderID:       get(c.orderID),
		CustomerState: get(c.customerState),
		PurchaseTime:  purchase,
	}
	if row.OrderID == "" {
		return analytics.Order{}, false
	}

	if cat := get(c.category); cat != "" {
		row.ProductCategory = analytics.Str(cat)
	}
	row.ProductWeightG = parseNullFloat(get(c.weightG))
	row.ProductLengthCM = parseNullFloat(get(c.lengthCM))
	row.ProductHeightCM = parseNullFloat(get(c.heightCM))
	row.ProductWidthCM = parseNullFloat(get(c.widthCM))

	row.Volume = parseNullFloat(get(c.volume))
	if !row.Volume.Valid {
		row.Volume = deriveVolume(row.ProductLengthCM, row.ProductHeightCM, row.ProductWidthCM)
	}

	row.DeliveryDelay = parseNullFloat(get(c.delay))
	if !row.DeliveryDelay.Valid {
		row.DeliveryDelay = deriveDelay(get(c.deliveredDate), get(c.estimatedDate))
	}

	row.DeliveryStatus = get(c.status)
	if row.DeliveryStatus == "" && row.DeliveryDelay.Valid {
		row.DeliveryStatus = deriveStatus(row.DeliveryDelay.Float64)
	}

	row.WeightCategory = get(c.weightBand)
	if row.WeightCategory == "" {
		row.WeightCategory = deriveWeightBand(row.ProductWeightG)
	}

	row.OrderWeekday = get(c.weekday)
	if row.OrderWeekday == "" {
		row.OrderWeekday = purchase.Weekday().String()
	}

	return row, true
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func parseNullFloat(s string) analytics.NullFloat64 {
	if s == "" {
		return analytics.NullFloat64{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return analytics.NullFloat64{}
	}
	return analytics.Float(v)
}
