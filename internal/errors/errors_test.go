package errors

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorInterface(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad input")
	assert.Equal(t, "bad input", err.Error())
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "INVALID_REQUEST", err.ErrorCode)
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err        *APIError
		wantStatus int
		wantCode   string
	}{
		{ErrInvalidDateRange, http.StatusBadRequest, "INVALID_DATE_RANGE"},
		{ErrDatasetNotFound, http.StatusNotFound, "DATASET_NOT_FOUND"},
		{ErrDatasetSchema, http.StatusUnprocessableEntity, "DATASET_SCHEMA_INVALID"},
		{ErrRateLimitExceeded, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{ErrReportFailed, http.StatusInternalServerError, "REPORT_FAILED"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.wantStatus, tt.err.StatusCode, tt.wantCode)
		assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
	}
}

func TestErrValidationCarriesField(t *testing.T) {
	err := ErrValidation("from", "must be a calendar date")

	details, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "from", details.Field)
	assert.Equal(t, "must be a calendar date", details.Message)
}

func TestProblemDetailsMarshalIncludesExtensions(t *testing.T) {
	problem := NewProblemDetails(
		http.StatusBadRequest,
		TypeInvalidDateRange,
		"Invalid Date Range",
		"start is after end",
		"/api/report",
	).WithExtension("trace_id", "abc-123")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, TypeInvalidDateRange, decoded["type"])
	assert.Equal(t, float64(http.StatusBadRequest), decoded["status"])
	assert.Equal(t, "abc-123", decoded["trace_id"])
}
