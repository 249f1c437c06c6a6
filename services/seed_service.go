// services/seed_service.go
package services

import (
	"log"

	"github.com/kngsoomin/clickstream-monitor/fetcher"
	"github.com/kngsoomin/clickstream-monitor/models"
)

// SeedService runs fetch -> ingest -> validate -> evaluate for a set of
// months, for demo seeding. Months are independent: one month's failure is
// recorded in its result and never aborts the others.
type SeedService struct {
	Fetcher    *fetcher.Fetcher
	Ingest     *IngestService
	Validate   *ValidateService
	Sla        *SlaService
	Thresholds models.SlaThresholds
}

// Run processes each month in order and returns one result per month.
func (s *SeedService) Run(months []string) []models.SeedResult {
	results := make([]models.SeedResult, 0, len(months))

	for _, month := range months {
		log.Printf("Service: seeding month=%s\n", month)
		res := models.SeedResult{LoadMonth: month}

		tsvPath, err := s.Fetcher.FetchMonth(month)
		if err != nil {
			res.Error = err.Error()
			log.Printf("ERROR Service: seed fetch failed for month=%s: %v\n", month, err)
			results = append(results, res)
			continue
		}
		res.Fetched = true

		audit := s.Ingest.Ingest(tsvPath)
		res.Audit = &audit
		if audit.Status != models.StatusSuccess {
			res.Error = "ingestion failed, see audit entry"
			results = append(results, res)
			continue
		}

		summary, err := s.Validate.Validate(month)
		if err != nil {
			res.Error = err.Error()
			log.Printf("ERROR Service: seed validate failed for month=%s: %v\n", month, err)
			results = append(results, res)
			continue
		}
		res.Summary = &summary

		verdict, err := s.Sla.Evaluate(month, s.Thresholds)
		if err != nil {
			res.Error = err.Error()
			log.Printf("ERROR Service: seed SLA evaluation failed for month=%s: %v\n", month, err)
			results = append(results, res)
			continue
		}
		res.Verdict = &verdict

		results = append(results, res)
	}

	log.Printf("Service: seed run complete for %d months.\n", len(months))
	return results
}
