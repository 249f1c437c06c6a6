// services/cleaner.go
package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/kngsoomin/clickstream-monitor/models"
)

var validTypes = map[string]bool{
	models.TypeLink:     true,
	models.TypeExternal: true,
	models.TypeOther:    true,
}

// CleanRows is the pure cleaning pass over one parsed batch. A record
// survives only if prev, curr and type are present, type is one of the
// known kinds, and n coerces to a non-negative integer count. Everything
// else is dropped, not clamped. Returns the cleaned rows tagged with the
// load month and the number of rejected records.
func CleanRows(records []models.RawRecord, month string) ([]models.ClickstreamRow, int64) {
	rows := make([]models.ClickstreamRow, 0, len(records))
	var rejected int64

	for _, rec := range records {
		n, ok := coerceCount(rec.N)
		if !ok || rec.Prev == "" || rec.Curr == "" || rec.Type == "" || !validTypes[rec.Type] {
			rejected++
			continue
		}
		rows = append(rows, models.ClickstreamRow{
			Prev:      rec.Prev,
			Curr:      rec.Curr,
			Type:      rec.Type,
			N:         n,
			LoadMonth: month,
		})
	}
	return rows, rejected
}

// coerceCount parses the raw n field into a non-negative integer count.
// Numeric but non-integral values are rejected, matching the fact that a
// transition count is a whole number.
func coerceCount(raw string) (int64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v < 0 || v != math.Trunc(v) {
		return 0, false
	}
	return int64(v), true
}
