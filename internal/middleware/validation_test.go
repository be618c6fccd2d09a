package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "deliverypulse/internal/errors"
)

func newValidation(t *testing.T) *ValidationMiddleware {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewValidationMiddleware(logger, apierrors.NewErrorHandler(logger, false))
}

type reportQuery struct {
	From    string   `json:"from" validate:"omitempty,calendardate"`
	To      string   `json:"to" validate:"omitempty,calendardate"`
	Regions []string `json:"regions" validate:"dive,region"`
	Format  string   `json:"format" validate:"omitempty,exportformat"`
}

func TestValidateStruct(t *testing.T) {
	m := newValidation(t)

	tests := []struct {
		name    string
		query   reportQuery
		wantErr bool
	}{
		{
			name:  "valid query",
			query: reportQuery{From: "2017-01-01", To: "2018-08-29", Regions: []string{"SP", "RJ"}, Format: "csv"},
		},
		{
			name:    "bad date",
			query:   reportQuery{From: "2017-13-40"},
			wantErr: true,
		},
		{
			name:    "not a date at all",
			query:   reportQuery{To: "yesterday"},
			wantErr: true,
		},
		{
			name:    "lowercase region",
			query:   reportQuery{Regions: []string{"sp"}},
			wantErr: true,
		},
		{
			name:    "three letter region",
			query:   reportQuery{Regions: []string{"SPX"}},
			wantErr: true,
		},
		{
			name:    "unknown format",
			query:   reportQuery{Format: "pdf"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.ValidateStruct(tt.query)
			if tt.wantErr {
				require.Error(t, err)
				var apiErr *apierrors.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, "VALIDATION_FAILED", apiErr.ErrorCode)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestQueryParamValidatorInt(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	v := NewQueryParamValidator(logger, apierrors.NewErrorHandler(logger, false))

	req := httptest.NewRequest(http.MethodGet, "/?limit=5", nil)
	got, ok := v.ValidateInt(httptest.NewRecorder(), req, "limit", 1, 50, 10)
	require.True(t, ok)
	assert.Equal(t, 5, got)

	// Missing param falls back to the default.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	got, ok = v.ValidateInt(httptest.NewRecorder(), req, "limit", 1, 50, 10)
	require.True(t, ok)
	assert.Equal(t, 10, got)

	// Out of range is rejected.
	req = httptest.NewRequest(http.MethodGet, "/?limit=500", nil)
	rec := httptest.NewRecorder()
	_, ok = v.ValidateInt(rec, req, "limit", 1, 50, 10)
	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryParamValidatorDate(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	v := NewQueryParamValidator(logger, apierrors.NewErrorHandler(logger, false))

	req := httptest.NewRequest(http.MethodGet, "/?from=2018-03-05", nil)
	got, present, ok := v.ValidateDate(httptest.NewRecorder(), req, "from")
	require.True(t, ok)
	require.True(t, present)
	assert.Equal(t, 2018, got.Year())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	_, present, ok = v.ValidateDate(httptest.NewRecorder(), req, "from")
	require.True(t, ok)
	assert.False(t, present)

	req = httptest.NewRequest(http.MethodGet, "/?from=03%2F05%2F2018", nil)
	rec := httptest.NewRecorder()
	_, _, ok = v.ValidateDate(rec, req, "from")
	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
