// database/schema.go
package database

import "fmt"

// The three persisted collections. Statements are IF NOT EXISTS so schema
// application is safe to run on every ingest invocation and at startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS clickstream_raw (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		prev VARCHAR(512) NOT NULL,
		curr VARCHAR(512) NOT NULL,
		type VARCHAR(16) NOT NULL,
		n BIGINT NOT NULL,
		load_month CHAR(7) NOT NULL,
		INDEX idx_clickstream_raw_load_month (load_month)
	)`,
	`CREATE TABLE IF NOT EXISTS dq_monthly (
		load_month CHAR(7) NOT NULL PRIMARY KEY,
		row_count BIGINT NOT NULL,
		null_rate DOUBLE NOT NULL,
		duplicate_rate DOUBLE NOT NULL,
		range_error_rate DOUBLE NOT NULL,
		schema_valid TINYINT(1) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ingest_audit (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		load_month VARCHAR(16) NOT NULL,
		source_file VARCHAR(255) NOT NULL,
		inserted_rows BIGINT NOT NULL,
		skipped_lines BIGINT NOT NULL,
		started_at DATETIME NOT NULL,
		ended_at DATETIME NOT NULL,
		status VARCHAR(10) NOT NULL
	)`,
}

// ApplySchema creates the tables and indexes if they do not exist yet.
func (s *Store) ApplySchema() error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
