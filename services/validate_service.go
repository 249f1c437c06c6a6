// services/validate_service.go
package services

import (
	"log"
	"strings"

	"github.com/kngsoomin/clickstream-monitor/models"
)

// ValidateStore is what the quality validator needs from the storage layer.
type ValidateStore interface {
	FetchMonthRows(month string) ([]models.FactRow, []string, error)
	UpsertMonthlySummary(m models.DQMonthly) error
}

// ValidateService computes the per-month DQ summary from the raw rows and
// caches it in dq_monthly. Idempotent: re-running over an unchanged raw set
// yields the same summary, and the upsert keeps one row per month.
type ValidateService struct {
	Store ValidateStore
}

var coreColumns = []string{"prev", "curr", "type", "n"}

// Validate reads one month's raw rows, computes the quality metrics and
// upserts the summary. Returns the computed summary.
func (s *ValidateService) Validate(month string) (models.DQMonthly, error) {
	facts, cols, err := s.Store.FetchMonthRows(month)
	if err != nil {
		return models.DQMonthly{}, err
	}
	if len(facts) == 0 {
		log.Printf("WARN Service: no clickstream rows found for month=%s\n", month)
	}

	normalizeNullLike(facts)
	summary := computeQuality(month, facts, cols)

	if err := s.Store.UpsertMonthlySummary(summary); err != nil {
		return models.DQMonthly{}, err
	}

	log.Printf("Service: validated month=%s rows=%d null=%.4f dup=%.4f range=%.4f schema_valid=%t\n",
		month, summary.RowCount, summary.NullRate, summary.DuplicateRate, summary.RangeErrorRate, summary.SchemaValid)
	return summary, nil
}

// normalizeNullLike marks empty-string text fields as missing, in place.
// This is validator-specific normalization, not a storage constraint: the
// anomaly injector simulates nulls by writing '' into prev/curr/type, which
// bypasses NOT NULL but must count toward the null rate.
func normalizeNullLike(facts []models.FactRow) {
	for i := range facts {
		for _, field := range []*struct {
			valid *bool
			value *string
		}{
			{&facts[i].Prev.Valid, &facts[i].Prev.String},
			{&facts[i].Curr.Valid, &facts[i].Curr.String},
			{&facts[i].Type.Valid, &facts[i].Type.String},
		} {
			if *field.valid && strings.TrimSpace(*field.value) == "" {
				*field.valid = false
				*field.value = ""
			}
		}
	}
}

// computeQuality derives the DQ metrics for one month's working set.
func computeQuality(month string, facts []models.FactRow, cols []string) models.DQMonthly {
	schemaValid := hasCoreColumns(cols)
	rowCount := int64(len(facts))

	summary := models.DQMonthly{
		LoadMonth:   month,
		RowCount:    rowCount,
		SchemaValid: schemaValid,
	}

	if !schemaValid {
		summary.NullRate = 1.0
		return summary
	}
	if rowCount == 0 {
		// Mean over an empty set; all rates stay at zero.
		return summary
	}

	var nullCells int64
	var rangeErrors int64
	var duplicates int64
	seen := make(map[string]bool, len(facts))

	for _, f := range facts {
		if !f.Prev.Valid {
			nullCells++
		}
		if !f.Curr.Valid {
			nullCells++
		}
		if !f.Type.Valid {
			nullCells++
		}
		if !f.N.Valid {
			nullCells++
		}
		if f.N.Valid && f.N.Int64 < 0 {
			rangeErrors++
		}

		// Mark duplicates except first on the (prev, curr, type) triple.
		key := tripleKey(f)
		if seen[key] {
			duplicates++
		} else {
			seen[key] = true
		}
	}

	total := float64(rowCount)
	// Mean of the per-field null fractions across the four core fields.
	summary.NullRate = float64(nullCells) / (float64(len(coreColumns)) * total)
	summary.DuplicateRate = float64(duplicates) / total
	summary.RangeErrorRate = float64(rangeErrors) / total
	return summary
}

func hasCoreColumns(cols []string) bool {
	present := make(map[string]bool, len(cols))
	for _, c := range cols {
		present[c] = true
	}
	for _, c := range coreColumns {
		if !present[c] {
			return false
		}
	}
	return true
}

// tripleKey builds a dedup key over (prev, curr, type). Missing values
// compare equal to each other.
func tripleKey(f models.FactRow) string {
	k := make([]string, 0, 3)
	for _, field := range []struct {
		valid bool
		value string
	}{
		{f.Prev.Valid, f.Prev.String},
		{f.Curr.Valid, f.Curr.String},
		{f.Type.Valid, f.Type.String},
	} {
		if field.valid {
			k = append(k, field.value)
		} else {
			k = append(k, "\x00")
		}
	}
	return strings.Join(k, "\x1f")
}
