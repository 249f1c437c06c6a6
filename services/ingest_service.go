// services/ingest_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/kngsoomin/clickstream-monitor/models"
	"github.com/kngsoomin/clickstream-monitor/utils"
)

// IngestStore is what the loader needs from the storage layer.
type IngestStore interface {
	ApplySchema() error
	DeleteMonthRows(month string) (int64, error)
	InsertRows(rows []models.ClickstreamRow) (int64, error)
	InsertAuditEntry(entry models.IngestAudit) error
}

// IngestService loads one TSV into clickstream_raw idempotently per month:
// the month's existing rows are deleted first, then the file is parsed,
// cleaned and appended batch by batch. Each batch commits on its own, so a
// mid-load failure leaves a partial month; re-running ingest (which clears
// the month again) is the recovery path.
type IngestService struct {
	Store     IngestStore
	BatchSize int // rows per parse/insert batch; <= 0 loads in one batch
}

// Ingest runs one ingestion attempt and always records exactly one audit
// entry for it. Failures surface as a FAILED audit entry, never as a
// returned error: callers decide what to do from the Status field.
func (s *IngestService) Ingest(sourcePath string) models.IngestAudit {
	sourceFile := filepath.Base(sourcePath)
	month := utils.DetectMonthFromFilename(sourcePath)
	log.Printf("Service: ingesting %s (month=%s)\n", sourceFile, month)

	startedAt := time.Now().UTC()
	status := models.StatusSuccess

	inserted, skipped, err := s.load(sourcePath, month)
	if err != nil {
		status = models.StatusFailed
		log.Printf("ERROR Service: ingestion failed for %s: %v\n", sourceFile, err)
	}

	entry := models.IngestAudit{
		LoadMonth:    month,
		SourceFile:   sourceFile,
		InsertedRows: inserted,
		SkippedLines: skipped,
		StartedAt:    startedAt,
		EndedAt:      time.Now().UTC(),
		Status:       status,
	}

	// The audit trail must not become a crash source: a failure to record
	// the attempt is logged and swallowed, never allowed to mask the load
	// outcome itself.
	if auditErr := s.Store.InsertAuditEntry(entry); auditErr != nil {
		log.Printf("WARN Service: failed to write ingest audit for %s (month=%s inserted=%d skipped=%d status=%s): %v\n",
			sourceFile, month, inserted, skipped, status, auditErr)
	}

	log.Printf("Service: ingest done. month=%s inserted=%d skipped=%d status=%s\n",
		month, inserted, skipped, status)
	return entry
}

// load performs schema application, the idempotent month replace, and the
// batched parse/clean/insert loop. Counts accumulated before a failure are
// returned so the audit entry can report them.
func (s *IngestService) load(sourcePath, month string) (inserted, skipped int64, err error) {
	if err = s.Store.ApplySchema(); err != nil {
		return inserted, skipped, fmt.Errorf("failed to apply schema: %w", err)
	}

	// Idempotency: replace the existing month rather than appending to it.
	if _, err = s.Store.DeleteMonthRows(month); err != nil {
		return inserted, skipped, err
	}

	file, err := os.Open(sourcePath)
	if err != nil {
		return inserted, skipped, fmt.Errorf("failed to open source file %s: %w", sourcePath, err)
	}
	defer file.Close()

	reader, err := NewTSVReader(file)
	if err != nil {
		return inserted, skipped, err
	}

	for {
		records, skippedLines, done, readErr := reader.ReadBatch(s.BatchSize)
		skipped += skippedLines
		if readErr != nil {
			return inserted, skipped, readErr
		}

		cleaned, rejected := CleanRows(records, month)
		skipped += rejected

		if len(cleaned) > 0 {
			count, insErr := s.Store.InsertRows(cleaned)
			if insErr != nil {
				return inserted, skipped, insErr
			}
			inserted += count
		}

		if done {
			return inserted, skipped, nil
		}
	}
}
