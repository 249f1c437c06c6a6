// services/anomaly_service.go
package services

import (
	"fmt"
	"log"
	"math"
)

// AnomalyStore is what the demo anomaly injector needs from the storage
// layer.
type AnomalyStore interface {
	ThinMonthRows(month string, deletePerThousand int) (int64, error)
	BlankColumnRows(month, column string, perThousand int) (int64, error)
}

// AnomalyService injects synthetic anomalies into a month's raw rows so
// the DQ and SLA layers have something to catch in demos and tests. It is
// the only thing that mutates clickstream_raw rows in place.
type AnomalyService struct {
	Store AnomalyStore
}

var blankableColumns = map[string]bool{
	"prev": true,
	"curr": true,
	"type": true,
}

// DropVolume randomly deletes rows to simulate a volume drop. keepRatio is
// the fraction (0,1] of rows to keep; parameters outside that range are
// rejected before any mutation.
func (s *AnomalyService) DropVolume(month string, keepRatio float64) (int64, error) {
	if keepRatio <= 0 || keepRatio > 1 {
		return 0, fmt.Errorf("keep ratio must be in (0, 1], got %g", keepRatio)
	}

	pt := perThousand(1 - keepRatio)
	log.Printf("Service: volume drop for month=%s keep_ratio=%.2f (~delete %d per thousand)\n", month, keepRatio, pt)

	changed, err := s.Store.ThinMonthRows(month, pt)
	if err != nil {
		return 0, err
	}
	log.Printf("Service: volume drop affected %d rows\n", changed)
	return changed, nil
}

// InjectNullLike sets the target column to the empty string on roughly
// rate of the month's rows. Empty strings bypass the NOT NULL constraint
// but the validator treats them as missing.
func (s *AnomalyService) InjectNullLike(month string, rate float64, column string) (int64, error) {
	if !blankableColumns[column] {
		return 0, fmt.Errorf("target column must be one of prev, curr, type; got %q", column)
	}
	if rate <= 0 || rate > 1 {
		return 0, fmt.Errorf("null rate must be in (0, 1], got %g", rate)
	}

	pt := perThousand(rate)
	log.Printf("Service: null-like injection for month=%s rate=%.4f target=%s (~%d per thousand)\n", month, rate, column, pt)

	changed, err := s.Store.BlankColumnRows(month, column, pt)
	if err != nil {
		return 0, err
	}
	log.Printf("Service: null-like injection affected %d rows\n", changed)
	return changed, nil
}

// perThousand maps a fraction in [0,1] to an integer per-thousand value for
// the RAND() predicates in the store.
func perThousand(rate float64) int {
	if rate <= 0 {
		return 0
	}
	v := int(math.Round(rate * 1000))
	if v > 1000 {
		return 1000
	}
	return v
}
