// models/clickstream.go
package models

import (
	"database/sql"
	"time"
)

// Valid values for the clickstream "type" column.
const (
	TypeLink     = "link"
	TypeExternal = "external"
	TypeOther    = "other"
)

// Audit status values for ingest_audit.status.
const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// RawRecord is one TSV line as parsed, before cleaning. All fields stay
// strings here; type coercion of "n" is the cleaner's job, not the parser's.
type RawRecord struct {
	Prev string `csv:"prev"`
	Curr string `csv:"curr"`
	Type string `csv:"type"`
	N    string `csv:"n"`
}

// ClickstreamRow is one cleaned transition, ready for clickstream_raw.
type ClickstreamRow struct {
	Prev      string `db:"prev" json:"prev"`
	Curr      string `db:"curr" json:"curr"`
	Type      string `db:"type" json:"type"`
	N         int64  `db:"n" json:"n"`
	LoadMonth string `db:"load_month" json:"load_month"`
}

// FactRow is a clickstream_raw row as read back for validation. Fields are
// nullable because the anomaly injector (and pre-cleaner historical data)
// can leave null-like values in the table.
type FactRow struct {
	Prev sql.NullString
	Curr sql.NullString
	Type sql.NullString
	N    sql.NullInt64
}

// DQMonthly is the cached data-quality summary for one month.
// At most one row exists per load_month (upsert semantics).
type DQMonthly struct {
	LoadMonth      string  `db:"load_month" json:"load_month"`
	RowCount       int64   `db:"row_count" json:"row_count"`
	NullRate       float64 `db:"null_rate" json:"null_rate"`
	DuplicateRate  float64 `db:"duplicate_rate" json:"duplicate_rate"`
	RangeErrorRate float64 `db:"range_error_rate" json:"range_error_rate"`
	SchemaValid    bool    `db:"schema_valid" json:"schema_valid"`
}

// IngestAudit is one immutable record of an ingestion attempt. Exactly one
// is written per Ingest invocation, success or failure.
type IngestAudit struct {
	ID           int64     `db:"id" json:"id"`
	LoadMonth    string    `db:"load_month" json:"load_month"`
	SourceFile   string    `db:"source_file" json:"source_file"`
	InsertedRows int64     `db:"inserted_rows" json:"inserted_rows"`
	SkippedLines int64     `db:"skipped_lines" json:"skipped_lines"`
	StartedAt    time.Time `db:"started_at" json:"started_at"`
	EndedAt      time.Time `db:"ended_at" json:"ended_at"`
	Status       string    `db:"status" json:"status"`
}
