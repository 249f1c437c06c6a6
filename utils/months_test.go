// utils/months_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectMonthFromFilename(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"clickstream-enwiki-2025-09.tsv", "2025-09"},
		{"data/raw/clickstream-dewiki-2024-12.tsv", "2024-12"},
		{"clickstream-enwiki-2025-09.tsv.gz", "2025-09"},
		{"2025-09.tsv", "2025-09"},
		{"clickstream-enwiki.tsv", "unknown"},
		{"notes.txt", "unknown"},
		{"backup-20250901.tsv", "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectMonthFromFilename(tt.path), tt.path)
	}
}

func TestIsMonthKey(t *testing.T) {
	assert.True(t, IsMonthKey("2025-09"))
	assert.True(t, IsMonthKey("1999-01"))
	assert.False(t, IsMonthKey("2025-9"))
	assert.False(t, IsMonthKey("2025/09"))
	assert.False(t, IsMonthKey("unknown"))
	assert.False(t, IsMonthKey(""))
}

func TestPrevMonth(t *testing.T) {
	pm, err := PrevMonth("2025-09")
	require.NoError(t, err)
	assert.Equal(t, "2025-08", pm)

	// January wraps into the previous year's December.
	pm, err = PrevMonth("2025-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-12", pm)

	_, err = PrevMonth("not-a-month")
	assert.Error(t, err)
}

func TestMonthsInclusive(t *testing.T) {
	months, err := MonthsInclusive("2025-06", "2025-09")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06", "2025-07", "2025-08", "2025-09"}, months)

	// Reversed bounds are swapped.
	months, err = MonthsInclusive("2025-02", "2024-11")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-11", "2024-12", "2025-01", "2025-02"}, months)

	months, err = MonthsInclusive("2025-06", "2025-06")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06"}, months)

	_, err = MonthsInclusive("2025-06", "junk")
	assert.Error(t, err)
}
