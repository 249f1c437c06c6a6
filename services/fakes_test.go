// services/fakes_test.go
package services

import (
	"database/sql"
	"fmt"

	"github.com/kngsoomin/clickstream-monitor/models"
)

type fakeIngestStore struct {
	schemaErr error
	deleteErr error
	insertErr error
	auditErr  error

	rows   map[string][]models.ClickstreamRow
	audits []models.IngestAudit
}

func newFakeIngestStore() *fakeIngestStore {
	return &fakeIngestStore{rows: make(map[string][]models.ClickstreamRow)}
}

func (f *fakeIngestStore) ApplySchema() error { return f.schemaErr }

func (f *fakeIngestStore) DeleteMonthRows(month string) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	deleted := int64(len(f.rows[month]))
	delete(f.rows, month)
	return deleted, nil
}

func (f *fakeIngestStore) InsertRows(rows []models.ClickstreamRow) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	for _, row := range rows {
		f.rows[row.LoadMonth] = append(f.rows[row.LoadMonth], row)
	}
	return int64(len(rows)), nil
}

func (f *fakeIngestStore) InsertAuditEntry(entry models.IngestAudit) error {
	if f.auditErr != nil {
		return f.auditErr
	}
	f.audits = append(f.audits, entry)
	return nil
}

type fakeValidateStore struct {
	facts     map[string][]models.FactRow
	cols      []string
	fetchErr  error
	upsertErr error

	summaries map[string]models.DQMonthly
	upserts   int
}

func newFakeValidateStore() *fakeValidateStore {
	return &fakeValidateStore{
		facts:     make(map[string][]models.FactRow),
		cols:      []string{"prev", "curr", "type", "n"},
		summaries: make(map[string]models.DQMonthly),
	}
}

func (f *fakeValidateStore) FetchMonthRows(month string) ([]models.FactRow, []string, error) {
	if f.fetchErr != nil {
		return nil, nil, f.fetchErr
	}
	return f.facts[month], f.cols, nil
}

func (f *fakeValidateStore) UpsertMonthlySummary(m models.DQMonthly) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts++
	f.summaries[m.LoadMonth] = m
	return nil
}

type fakeSlaStore struct {
	counts    map[string]int64
	summaries map[string]models.DQMonthly
}

func newFakeSlaStore() *fakeSlaStore {
	return &fakeSlaStore{
		counts:    make(map[string]int64),
		summaries: make(map[string]models.DQMonthly),
	}
}

func (f *fakeSlaStore) CountMonthRows(month string) (int64, error) {
	return f.counts[month], nil
}

func (f *fakeSlaStore) GetMonthlySummary(month string) (*models.DQMonthly, error) {
	m, ok := f.summaries[month]
	if !ok {
		return nil, fmt.Errorf("no monthly summary for month: %s", month)
	}
	return &m, nil
}

type fakeArrival struct {
	files map[string][]string
}

func (f *fakeArrival) RawFilesForMonth(month string) ([]string, error) {
	return f.files[month], nil
}

type fakeAnomalyStore struct {
	thinCalls  int
	blankCalls int
	affected   int64
}

func (f *fakeAnomalyStore) ThinMonthRows(month string, deletePerThousand int) (int64, error) {
	f.thinCalls++
	return f.affected, nil
}

func (f *fakeAnomalyStore) BlankColumnRows(month, column string, perThousand int) (int64, error) {
	f.blankCalls++
	return f.affected, nil
}

func ns(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func ni(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: true}
}
