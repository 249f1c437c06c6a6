// models/sla.go
package models

import "fmt"

// Names of the individual SLA checks as they appear in a verdict.
const (
	CheckArrival     = "arrival"
	CheckVolumeFloor = "volume_floor"
	CheckVolumeDrop  = "volume_drop"
	CheckNullRate    = "null_rate"
	CheckDupRate     = "duplicate_rate"
	CheckRangeErrors = "range_error_rate"
)

// SlaThresholds are supplied by the caller (API query params, config
// defaults, demo seeding). The evaluator prescribes no defaults itself.
type SlaThresholds struct {
	MinRows           int64   `json:"min_rows"`
	MaxDropFraction   float64 `json:"max_drop_fraction"`
	MaxNullRate       float64 `json:"max_null_rate"`
	MaxDupRate        float64 `json:"max_dup_rate"`
	MaxRangeErrorRate float64 `json:"max_range_error_rate"`
}

// Validate rejects out-of-range thresholds before any storage access.
func (t SlaThresholds) Validate() error {
	if t.MinRows < 0 {
		return fmt.Errorf("min_rows must be >= 0, got %d", t.MinRows)
	}
	if t.MaxDropFraction < 0 || t.MaxDropFraction > 1 {
		return fmt.Errorf("max_drop_fraction must be in [0,1], got %g", t.MaxDropFraction)
	}
	if t.MaxNullRate < 0 || t.MaxNullRate > 1 {
		return fmt.Errorf("max_null_rate must be in [0,1], got %g", t.MaxNullRate)
	}
	if t.MaxDupRate < 0 || t.MaxDupRate > 1 {
		return fmt.Errorf("max_dup_rate must be in [0,1], got %g", t.MaxDupRate)
	}
	if t.MaxRangeErrorRate < 0 || t.MaxRangeErrorRate > 1 {
		return fmt.Errorf("max_range_error_rate must be in [0,1], got %g", t.MaxRangeErrorRate)
	}
	return nil
}

// SlaCheck is the outcome of one independent check. A skipped check carries
// Passed=false but is excluded from the overall verdict.
type SlaCheck struct {
	Name      string  `json:"name"`
	Passed    bool    `json:"passed"`
	Skipped   bool    `json:"skipped"`
	Observed  float64 `json:"observed"`
	Threshold float64 `json:"threshold"`
	Detail    string  `json:"detail,omitempty"`
}

// SlaVerdict is the structured result of evaluating one month.
// Passed is the logical AND of all non-skipped checks.
type SlaVerdict struct {
	LoadMonth string     `json:"load_month"`
	Checks    []SlaCheck `json:"checks"`
	Passed    bool       `json:"passed"`
}
