// services/validate_service_test.go
package services

import (
	"database/sql"
	"testing"

	"github.com/kngsoomin/clickstream-monitor/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateComputesDuplicateRate(t *testing.T) {
	store := newFakeValidateStore()
	store.facts["2025-09"] = []models.FactRow{
		{Prev: ns("A"), Curr: ns("B"), Type: ns("link"), N: ni(10)},
		{Prev: ns("A"), Curr: ns("B"), Type: ns("link"), N: ni(10)},
		{Prev: ns("C"), Curr: ns("D"), Type: ns("external"), N: ni(5)},
	}
	svc := &ValidateService{Store: store}

	summary, err := svc.Validate("2025-09")
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.RowCount)
	assert.InDelta(t, 1.0/3.0, summary.DuplicateRate, 1e-9)
	assert.Zero(t, summary.RangeErrorRate)
	assert.Zero(t, summary.NullRate)
	assert.True(t, summary.SchemaValid)
}

func TestValidateTreatsEmptyStringsAsMissing(t *testing.T) {
	store := newFakeValidateStore()
	store.facts["2025-09"] = []models.FactRow{
		{Prev: ns(""), Curr: ns("B"), Type: ns("link"), N: ni(10)},
		{Prev: ns("  "), Curr: ns("D"), Type: ns("link"), N: ni(5)},
		{Prev: ns("E"), Curr: ns("F"), Type: ns("link"), N: ni(1)},
		{Prev: ns("G"), Curr: ns("H"), Type: ns("link"), N: ni(2)},
	}
	svc := &ValidateService{Store: store}

	summary, err := svc.Validate("2025-09")
	require.NoError(t, err)

	// Two null-like prev cells out of 16 core cells.
	assert.InDelta(t, 2.0/16.0, summary.NullRate, 1e-9)
}

func TestValidateCountsRangeErrors(t *testing.T) {
	store := newFakeValidateStore()
	store.facts["2025-09"] = []models.FactRow{
		{Prev: ns("A"), Curr: ns("B"), Type: ns("link"), N: ni(-3)},
		{Prev: ns("C"), Curr: ns("D"), Type: ns("link"), N: ni(7)},
		// A null count is missing data, not a range error.
		{Prev: ns("E"), Curr: ns("F"), Type: ns("link"), N: sql.NullInt64{}},
	}
	svc := &ValidateService{Store: store}

	summary, err := svc.Validate("2025-09")
	require.NoError(t, err)

	assert.InDelta(t, 1.0/3.0, summary.RangeErrorRate, 1e-9)
	assert.InDelta(t, 1.0/12.0, summary.NullRate, 1e-9)
}

func TestValidateEmptyMonth(t *testing.T) {
	store := newFakeValidateStore()
	svc := &ValidateService{Store: store}

	summary, err := svc.Validate("2025-09")
	require.NoError(t, err)

	assert.Zero(t, summary.RowCount)
	assert.Zero(t, summary.NullRate)
	assert.Zero(t, summary.DuplicateRate)
	assert.Zero(t, summary.RangeErrorRate)
	assert.True(t, summary.SchemaValid)
}

func TestValidateMissingColumns(t *testing.T) {
	store := newFakeValidateStore()
	store.cols = []string{"prev", "curr", "type"} // no n column
	svc := &ValidateService{Store: store}

	summary, err := svc.Validate("2025-09")
	require.NoError(t, err)

	assert.False(t, summary.SchemaValid)
	assert.Equal(t, 1.0, summary.NullRate)
}

func TestValidateUpsertKeepsOneSummaryPerMonth(t *testing.T) {
	store := newFakeValidateStore()
	store.facts["2025-09"] = []models.FactRow{
		{Prev: ns("A"), Curr: ns("B"), Type: ns("link"), N: ni(10)},
	}
	svc := &ValidateService{Store: store}

	first, err := svc.Validate("2025-09")
	require.NoError(t, err)
	second, err := svc.Validate("2025-09")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, store.upserts)
	require.Len(t, store.summaries, 1)
	assert.Equal(t, second, store.summaries["2025-09"])
}

func TestValidateRatesStayInBounds(t *testing.T) {
	store := newFakeValidateStore()
	store.facts["2025-09"] = []models.FactRow{
		{Prev: sql.NullString{}, Curr: sql.NullString{}, Type: sql.NullString{}, N: sql.NullInt64{}},
		{Prev: sql.NullString{}, Curr: sql.NullString{}, Type: sql.NullString{}, N: sql.NullInt64{}},
		{Prev: ns("A"), Curr: ns("B"), Type: ns("link"), N: ni(-1)},
	}
	svc := &ValidateService{Store: store}

	summary, err := svc.Validate("2025-09")
	require.NoError(t, err)

	for name, rate := range map[string]float64{
		"null_rate":        summary.NullRate,
		"duplicate_rate":   summary.DuplicateRate,
		"range_error_rate": summary.RangeErrorRate,
	} {
		assert.GreaterOrEqual(t, rate, 0.0, name)
		assert.LessOrEqual(t, rate, 1.0, name)
	}

	// The two all-null rows share a triple key, so one counts as duplicate.
	assert.InDelta(t, 1.0/3.0, summary.DuplicateRate, 1e-9)
}
