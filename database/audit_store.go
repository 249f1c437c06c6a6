// database/audit_store.go
package database

import (
	"fmt"

	"github.com/kngsoomin/clickstream-monitor/models"
)

// InsertAuditEntry appends one immutable ingestion audit record.
// Re-ingesting a month appends a new entry; nothing is ever overwritten.
func (s *Store) InsertAuditEntry(entry models.IngestAudit) error {
	_, err := s.db.Exec(`
		INSERT INTO ingest_audit (
			load_month, source_file, inserted_rows, skipped_lines,
			started_at, ended_at, status
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		entry.LoadMonth, entry.SourceFile, entry.InsertedRows, entry.SkippedLines,
		entry.StartedAt, entry.EndedAt, entry.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry for month %s: %w", entry.LoadMonth, err)
	}
	return nil
}

// GetRecentAuditEntries returns up to limit entries, newest first by
// insertion order.
func (s *Store) GetRecentAuditEntries(limit int) ([]models.IngestAudit, error) {
	rows, err := s.db.Query(`
		SELECT id, load_month, source_file, inserted_rows, skipped_lines,
		       started_at, ended_at, status
		FROM ingest_audit
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []models.IngestAudit
	for rows.Next() {
		var e models.IngestAudit
		err := rows.Scan(
			&e.ID, &e.LoadMonth, &e.SourceFile, &e.InsertedRows, &e.SkippedLines,
			&e.StartedAt, &e.EndedAt, &e.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit rows: %w", err)
	}
	return entries, nil
}
