// database/summary_store.go
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/kngsoomin/clickstream-monitor/models"
)

// ErrSummaryNotFound is returned when no DQ summary exists for a month.
// Callers must treat this as a distinct not-found condition, never as a
// zero-valued summary.
var ErrSummaryNotFound = errors.New("no monthly summary for month")

// UpsertMonthlySummary writes the summary for its month, replacing any
// previous one. The lookup and write happen in one transaction so readers
// never observe the row missing between delete and insert.
func (s *Store) UpsertMonthlySummary(m models.DQMonthly) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for summary upsert: %w", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRow(
		"SELECT load_month FROM dq_monthly WHERE load_month = ? FOR UPDATE", m.LoadMonth,
	).Scan(&existing)

	switch {
	case err == nil:
		_, err = tx.Exec(`
			UPDATE dq_monthly
			SET row_count = ?, null_rate = ?, duplicate_rate = ?,
			    range_error_rate = ?, schema_valid = ?
			WHERE load_month = ?
		`, m.RowCount, m.NullRate, m.DuplicateRate, m.RangeErrorRate, m.SchemaValid, m.LoadMonth)
		if err != nil {
			return fmt.Errorf("failed to update summary for month %s: %w", m.LoadMonth, err)
		}
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.Exec(`
			INSERT INTO dq_monthly (
				load_month, row_count, null_rate, duplicate_rate, range_error_rate, schema_valid
			) VALUES (?, ?, ?, ?, ?, ?)
		`, m.LoadMonth, m.RowCount, m.NullRate, m.DuplicateRate, m.RangeErrorRate, m.SchemaValid)
		if err != nil {
			return fmt.Errorf("failed to insert summary for month %s: %w", m.LoadMonth, err)
		}
	default:
		return fmt.Errorf("failed to look up summary for month %s: %w", m.LoadMonth, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit summary upsert for month %s: %w", m.LoadMonth, err)
	}

	log.Printf("Database: upserted DQ summary for month %s (rows=%d)\n", m.LoadMonth, m.RowCount)
	return nil
}

// GetMonthlySummary returns the cached summary for one month, or
// ErrSummaryNotFound if validate has not run for it.
func (s *Store) GetMonthlySummary(month string) (*models.DQMonthly, error) {
	var m models.DQMonthly
	err := s.db.QueryRow(`
		SELECT load_month, row_count, null_rate, duplicate_rate, range_error_rate, schema_valid
		FROM dq_monthly
		WHERE load_month = ?
	`, month).Scan(&m.LoadMonth, &m.RowCount, &m.NullRate, &m.DuplicateRate, &m.RangeErrorRate, &m.SchemaValid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrSummaryNotFound, month)
		}
		return nil, fmt.Errorf("failed to query summary for month %s: %w", month, err)
	}
	return &m, nil
}

// GetRecentSummaries returns up to limit summaries, newest month first.
func (s *Store) GetRecentSummaries(limit int) ([]models.DQMonthly, error) {
	rows, err := s.db.Query(`
		SELECT load_month, row_count, null_rate, duplicate_rate, range_error_rate, schema_valid
		FROM dq_monthly
		ORDER BY load_month DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent summaries: %w", err)
	}
	defer rows.Close()

	var summaries []models.DQMonthly
	for rows.Next() {
		var m models.DQMonthly
		if err := rows.Scan(&m.LoadMonth, &m.RowCount, &m.NullRate, &m.DuplicateRate, &m.RangeErrorRate, &m.SchemaValid); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		summaries = append(summaries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating summary rows: %w", err)
	}
	return summaries, nil
}
