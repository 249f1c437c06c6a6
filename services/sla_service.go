// services/sla_service.go
package services

import (
	"fmt"
	"log"

	"github.com/kngsoomin/clickstream-monitor/models"
	"github.com/kngsoomin/clickstream-monitor/utils"
)

// SlaStore is what the evaluator needs from the storage layer. Evaluation
// is strictly read-only.
type SlaStore interface {
	CountMonthRows(month string) (int64, error)
	GetMonthlySummary(month string) (*models.DQMonthly, error)
}

// ArrivalChecker reports which raw source files exist for a month.
// Satisfied by fetcher.Fetcher.
type ArrivalChecker interface {
	RawFilesForMonth(month string) ([]string, error)
}

// SlaService evaluates a month's volume and quality metrics against
// caller-supplied thresholds.
type SlaService struct {
	Store   SlaStore
	Arrival ArrivalChecker
}

// Evaluate runs the independent SLA checks for one month. The arrival check
// short-circuits the rest; the volume-drop check is skipped (not failed)
// when no prior-month data exists. Overall pass is the AND of all evaluated
// checks.
func (s *SlaService) Evaluate(month string, th models.SlaThresholds) (models.SlaVerdict, error) {
	if !utils.IsMonthKey(month) {
		return models.SlaVerdict{}, fmt.Errorf("invalid month key %q (want YYYY-MM)", month)
	}
	if err := th.Validate(); err != nil {
		return models.SlaVerdict{}, fmt.Errorf("invalid thresholds: %w", err)
	}

	verdict := models.SlaVerdict{LoadMonth: month}

	// Arrival: a raw source file for the month must exist.
	files, err := s.Arrival.RawFilesForMonth(month)
	if err != nil {
		return models.SlaVerdict{}, err
	}
	if len(files) == 0 {
		log.Printf("WARN Service: SLA arrival check failed, no raw file for month=%s\n", month)
		verdict.Checks = append(verdict.Checks, models.SlaCheck{
			Name:   models.CheckArrival,
			Detail: "no raw source file found for month",
		})
		return verdict, nil
	}
	verdict.Checks = append(verdict.Checks, models.SlaCheck{
		Name:     models.CheckArrival,
		Passed:   true,
		Observed: float64(len(files)),
	})

	rows, err := s.Store.CountMonthRows(month)
	if err != nil {
		return models.SlaVerdict{}, err
	}
	summary, err := s.Store.GetMonthlySummary(month)
	if err != nil {
		return models.SlaVerdict{}, err
	}

	verdict.Checks = append(verdict.Checks, models.SlaCheck{
		Name:      models.CheckVolumeFloor,
		Passed:    rows >= th.MinRows,
		Observed:  float64(rows),
		Threshold: float64(th.MinRows),
	})

	verdict.Checks = append(verdict.Checks, s.volumeDropCheck(month, rows, th))

	verdict.Checks = append(verdict.Checks,
		rateCheck(models.CheckNullRate, summary.NullRate, th.MaxNullRate),
		rateCheck(models.CheckDupRate, summary.DuplicateRate, th.MaxDupRate),
		rateCheck(models.CheckRangeErrors, summary.RangeErrorRate, th.MaxRangeErrorRate),
	)

	verdict.Passed = true
	for _, c := range verdict.Checks {
		if !c.Skipped && !c.Passed {
			verdict.Passed = false
		}
	}

	log.Printf("Service: SLA verdict for month=%s passed=%t\n", month, verdict.Passed)
	return verdict, nil
}

// volumeDropCheck compares the month's row count against the calendar month
// immediately preceding it.
func (s *SlaService) volumeDropCheck(month string, rows int64, th models.SlaThresholds) models.SlaCheck {
	check := models.SlaCheck{
		Name:      models.CheckVolumeDrop,
		Threshold: th.MaxDropFraction,
	}

	pm, err := utils.PrevMonth(month)
	if err != nil {
		check.Skipped = true
		check.Detail = err.Error()
		return check
	}

	prevRows, err := s.Store.CountMonthRows(pm)
	if err != nil {
		check.Skipped = true
		check.Detail = fmt.Sprintf("could not count rows for previous month %s: %v", pm, err)
		return check
	}
	if prevRows == 0 {
		check.Skipped = true
		check.Detail = fmt.Sprintf("no data for previous month %s", pm)
		return check
	}

	drop := 1 - float64(rows)/float64(prevRows)
	check.Observed = drop
	check.Passed = drop <= th.MaxDropFraction
	if !check.Passed {
		check.Detail = fmt.Sprintf("volume dropped %.1f%% vs %s (rows %d vs %d)", drop*100, pm, rows, prevRows)
	}
	return check
}

func rateCheck(name string, observed, max float64) models.SlaCheck {
	return models.SlaCheck{
		Name:      name,
		Passed:    observed <= max,
		Observed:  observed,
		Threshold: max,
	}
}
