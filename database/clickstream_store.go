// database/clickstream_store.go
package database

import (
	"fmt"
	"log"

	"github.com/kngsoomin/clickstream-monitor/models"
)

// DeleteMonthRows removes every raw row for the given month and returns the
// number of rows deleted, taken from the statement result itself.
func (s *Store) DeleteMonthRows(month string) (int64, error) {
	res, err := s.db.Exec("DELETE FROM clickstream_raw WHERE load_month = ?", month)
	if err != nil {
		return 0, fmt.Errorf("failed to delete clickstream rows for month %s: %w", month, err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read deleted row count for month %s: %w", month, err)
	}
	if deleted > 0 {
		log.Printf("Database: cleared %d existing clickstream rows for month %s\n", deleted, month)
	}
	return deleted, nil
}

// InsertRows appends one batch of cleaned rows inside a single transaction.
// Batches are individually atomic; there is no cross-batch transaction
// (re-running ingest for the month is the recovery path).
func (s *Store) InsertRows(rows []models.ClickstreamRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction for clickstream batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO clickstream_raw (prev, curr, type, n, load_month)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare clickstream insert statement: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		res, err := stmt.Exec(row.Prev, row.Curr, row.Type, row.N, row.LoadMonth)
		if err != nil {
			return 0, fmt.Errorf("failed to insert clickstream row (prev=%q curr=%q): %w", row.Prev, row.Curr, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read inserted row count: %w", err)
		}
		inserted += affected
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit clickstream batch: %w", err)
	}
	return inserted, nil
}

// CountMonthRows returns the raw row count for one month.
func (s *Store) CountMonthRows(month string) (int64, error) {
	var count int64
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM clickstream_raw WHERE load_month = ?", month,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count clickstream rows for month %s: %w", month, err)
	}
	return count, nil
}

// FetchMonthRows reads one month's raw rows for validation, along with the
// column names of the result set so the validator can confirm the schema.
func (s *Store) FetchMonthRows(month string) ([]models.FactRow, []string, error) {
	rows, err := s.db.Query(`
		SELECT prev, curr, type, n
		FROM clickstream_raw
		WHERE load_month = ?
	`, month)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query clickstream rows for month %s: %w", month, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read result columns for month %s: %w", month, err)
	}

	var facts []models.FactRow
	for rows.Next() {
		var f models.FactRow
		if err := rows.Scan(&f.Prev, &f.Curr, &f.Type, &f.N); err != nil {
			return nil, nil, fmt.Errorf("failed to scan clickstream row for month %s: %w", month, err)
		}
		facts = append(facts, f)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating clickstream rows for month %s: %w", month, err)
	}
	return facts, cols, nil
}

// ThinMonthRows randomly deletes roughly deletePerThousand/1000 of a month's
// rows. Used by the anomaly injector to simulate a volume drop.
func (s *Store) ThinMonthRows(month string, deletePerThousand int) (int64, error) {
	res, err := s.db.Exec(`
		DELETE FROM clickstream_raw
		WHERE load_month = ?
		  AND RAND() * 1000 < ?
	`, month, deletePerThousand)
	if err != nil {
		return 0, fmt.Errorf("failed to thin clickstream rows for month %s: %w", month, err)
	}
	return res.RowsAffected()
}

var blankableColumns = map[string]string{
	"prev": "prev",
	"curr": "curr",
	"type": "type",
}

// BlankColumnRows sets roughly perThousand/1000 of a month's rows to the
// empty string in the given text column. Empty strings bypass the NOT NULL
// constraint but are treated as missing by the validator.
func (s *Store) BlankColumnRows(month, column string, perThousand int) (int64, error) {
	col, ok := blankableColumns[column]
	if !ok {
		return 0, fmt.Errorf("column %q cannot be blanked (must be one of prev, curr, type)", column)
	}
	res, err := s.db.Exec(fmt.Sprintf(`
		UPDATE clickstream_raw
		SET %s = ''
		WHERE load_month = ?
		  AND RAND() * 1000 < ?
	`, col), month, perThousand)
	if err != nil {
		return 0, fmt.Errorf("failed to blank column %s for month %s: %w", col, month, err)
	}
	return res.RowsAffected()
}
