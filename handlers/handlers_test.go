// handlers/handlers_test.go
package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kngsoomin/clickstream-monitor/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testThresholds() models.SlaThresholds {
	return models.SlaThresholds{
		MinRows:           1000,
		MaxDropFraction:   0.20,
		MaxNullRate:       0.02,
		MaxDupRate:        0.01,
		MaxRangeErrorRate: 0,
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		query   string
		def     int
		max     int
		want    int
		wantErr bool
	}{
		{"", 6, 60, 6, false},
		{"limit=10", 6, 60, 10, false},
		{"limit=60", 6, 60, 60, false},
		{"limit=0", 6, 60, 0, true},
		{"limit=61", 6, 60, 0, true},
		{"limit=-3", 6, 60, 0, true},
		{"limit=ten", 6, 60, 0, true},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/api/trend?"+tt.query, nil)
		got, err := parseLimit(r, tt.def, tt.max)
		if tt.wantErr {
			assert.Error(t, err, tt.query)
			continue
		}
		require.NoError(t, err, tt.query)
		assert.Equal(t, tt.want, got, tt.query)
	}
}

func TestMonthFromPath(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/admin/ingest/2025-09", nil)
	month, err := monthFromPath(r)
	require.NoError(t, err)
	assert.Equal(t, "2025-09", month)

	r = httptest.NewRequest(http.MethodPost, "/api/admin/ingest/2025-09/", nil)
	month, err = monthFromPath(r)
	require.NoError(t, err)
	assert.Equal(t, "2025-09", month)

	for _, path := range []string{
		"/api/admin/ingest/",
		"/api/admin/ingest/september",
		"/api/admin/ingest/2025-9",
	} {
		r = httptest.NewRequest(http.MethodPost, path, nil)
		_, err = monthFromPath(r)
		assert.Error(t, err, path)
	}
}

func TestGetMetricsHandlerRejectsBadMonth(t *testing.T) {
	handler := GetMetricsHandler(nil)

	r := httptest.NewRequest(http.MethodGet, "/api/metrics?month=nonsense", nil)
	w := httptest.NewRecorder()
	handler(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	r = httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
	w = httptest.NewRecorder()
	handler(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMetricsHandlerRejectsNonGet(t *testing.T) {
	handler := GetMetricsHandler(nil)

	r := httptest.NewRequest(http.MethodPost, "/api/metrics?month=2025-09", nil)
	w := httptest.NewRecorder()
	handler(w, r)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestThresholdsFromQueryOverlaysDefaults(t *testing.T) {
	defaults := testThresholds()

	r := httptest.NewRequest(http.MethodPost, "/api/admin/sla/2025-09?min_rows=500&max_null_rate=0.1", nil)
	th, err := thresholdsFromQuery(r, defaults)
	require.NoError(t, err)
	assert.Equal(t, int64(500), th.MinRows)
	assert.Equal(t, 0.1, th.MaxNullRate)
	// Untouched params keep their configured defaults.
	assert.Equal(t, defaults.MaxDropFraction, th.MaxDropFraction)
	assert.Equal(t, defaults.MaxDupRate, th.MaxDupRate)

	r = httptest.NewRequest(http.MethodPost, "/api/admin/sla/2025-09?min_rows=lots", nil)
	_, err = thresholdsFromQuery(r, defaults)
	assert.Error(t, err)

	r = httptest.NewRequest(http.MethodPost, "/api/admin/sla/2025-09?max_drop_fraction=high", nil)
	_, err = thresholdsFromQuery(r, defaults)
	assert.Error(t, err)
}
