package analytics

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRange is returned by the filter stage when the range's start
// date falls after its end date. Raised before any filtering occurs.
var ErrInvalidRange = errors.New("analytics: date range start after end")

// SchemaError reports required columns absent from the input table's schema.
// It is fatal: nothing downstream of a schema violation can be trusted, so
// the whole invocation aborts rather than producing garbage views.
type SchemaError struct {
	Stage   string
	Missing []Column
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	names := make([]string, len(e.Missing))
	for i, c := range e.Missing {
		names[i] = string(c)
	}
	return fmt.Sprintf("analytics: %s: required columns missing: %s",
		e.Stage, strings.Join(names, ", "))
}

// requireColumns returns a *SchemaError naming every column of cols that the
// table does not carry, or nil when all are present.
func requireColumns(t *Table, stage string, cols ...Column) error {
	var missing []Column
	for _, c := range cols {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Stage: stage, Missing: missing}
	}
	return nil
}
