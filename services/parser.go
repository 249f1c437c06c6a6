// services/parser.go
package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/kngsoomin/clickstream-monitor/models"
)

// TSVReader decodes clickstream dump lines into RawRecords. Dumps are
// headerless tab-separated text, so the decoder gets the official column
// order (prev, curr, type, n) as an explicit header. Lines whose structure
// does not match are skipped at this boundary and counted; value-level
// problems are left for the cleaner.
type TSVReader struct {
	dec *csvutil.Decoder
}

// NewTSVReader wraps an io.Reader over raw TSV content.
func NewTSVReader(r io.Reader) (*TSVReader, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	// Page titles never contain tabs, so anything other than four fields is
	// a malformed line, surfaced by the reader as a field-count error.
	cr.FieldsPerRecord = 4

	dec, err := csvutil.NewDecoder(cr, "prev", "curr", "type", "n")
	if err != nil {
		return nil, fmt.Errorf("failed to create TSV decoder: %w", err)
	}
	return &TSVReader{dec: dec}, nil
}

// ReadBatch reads up to limit records (all remaining if limit <= 0).
// It returns the parsed records, the number of malformed lines skipped
// while producing them, and whether the input is exhausted. Only I/O
// failures are returned as errors; malformed lines never are.
func (t *TSVReader) ReadBatch(limit int) ([]models.RawRecord, int64, bool, error) {
	var records []models.RawRecord
	var skipped int64

	for limit <= 0 || len(records) < limit {
		var rec models.RawRecord
		err := t.dec.Decode(&rec)
		if err == nil {
			records = append(records, rec)
			continue
		}
		if errors.Is(err, io.EOF) {
			return records, skipped, true, nil
		}

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			// Wrong structure (usually field count). Skip and keep going.
			skipped++
			continue
		}
		return records, skipped, false, fmt.Errorf("failed to read TSV input: %w", err)
	}
	return records, skipped, false, nil
}
