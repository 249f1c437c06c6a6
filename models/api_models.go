// models/api_models.go
package models

// SeedRequest is the expected JSON body for POST /api/admin/seed.
// Either a list of months or an inclusive start/end range.
type SeedRequest struct {
	Months []string `json:"months,omitempty"`
	Start  string   `json:"start,omitempty"`
	End    string   `json:"end,omitempty"`
}

// SeedResult is the per-month outcome of a seed run.
type SeedResult struct {
	LoadMonth string      `json:"load_month"`
	Fetched   bool        `json:"fetched"`
	Audit     *IngestAudit `json:"audit,omitempty"`
	Summary   *DQMonthly   `json:"summary,omitempty"`
	Verdict   *SlaVerdict  `json:"verdict,omitempty"`
	Error     string       `json:"error,omitempty"`
}
