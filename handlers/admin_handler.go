// handlers/admin_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/kngsoomin/clickstream-monitor/fetcher"
	"github.com/kngsoomin/clickstream-monitor/models"
	"github.com/kngsoomin/clickstream-monitor/services"
	"github.com/kngsoomin/clickstream-monitor/utils"
)

// monthFromPath extracts the trailing {month} segment from paths like
// /api/admin/ingest/2025-09.
func monthFromPath(r *http.Request) (string, error) {
	pathParts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(pathParts) < 4 {
		return "", fmt.Errorf("invalid path, expected /api/admin/<action>/{month}")
	}
	month := pathParts[len(pathParts)-1]
	if !utils.IsMonthKey(month) {
		return "", fmt.Errorf("month must match YYYY-MM, got %q", month)
	}
	return month, nil
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return false
	}
	return true
}

// FetchMonthHandler handles POST /api/admin/fetch/{month}. It confirms the
// month is published on the dumps index before downloading, so unpublished
// months fail fast instead of timing out on a 404.
func FetchMonthHandler(f *fetcher.Fetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}
		month, err := monthFromPath(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		published, err := f.MonthPublished(month)
		if err != nil {
			respondWithError(w, http.StatusBadGateway, "Failed to check dumps index: "+err.Error())
			return
		}
		if !published {
			respondWithError(w, http.StatusNotFound, "Month "+month+" is not published on the dumps index")
			return
		}

		tsvPath, err := f.FetchMonth(month)
		if err != nil {
			respondWithError(w, http.StatusBadGateway, "Failed to fetch dump: "+err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"month": month, "file": tsvPath})
	}
}

// IngestMonthHandler handles POST /api/admin/ingest/{month}. Every matching
// raw file is ingested; each attempt yields its own audit entry whether it
// succeeded or not.
func IngestMonthHandler(svc *services.IngestService, f *fetcher.Fetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}
		month, err := monthFromPath(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		files, err := f.RawFilesForMonth(month)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list raw files: "+err.Error())
			return
		}
		if len(files) == 0 {
			respondWithError(w, http.StatusNotFound, "No raw TSV found for month="+month+", fetch it first")
			return
		}

		audits := make([]models.IngestAudit, 0, len(files))
		for _, file := range files {
			audits = append(audits, svc.Ingest(file))
		}
		respondWithJSON(w, http.StatusOK, audits)
	}
}

// ValidateMonthHandler handles POST /api/admin/validate/{month}.
func ValidateMonthHandler(svc *services.ValidateService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}
		month, err := monthFromPath(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		summary, err := svc.Validate(month)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Validation failed: "+err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, summary)
	}
}

// thresholdsFromQuery overlays SLA threshold query params onto the
// configured defaults. Range checking is left to SlaThresholds.Validate
// inside the evaluator.
func thresholdsFromQuery(r *http.Request, defaults models.SlaThresholds) (models.SlaThresholds, error) {
	th := defaults
	q := r.URL.Query()

	if raw := q.Get("min_rows"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return th, fmt.Errorf("min_rows must be an integer, got %q", raw)
		}
		th.MinRows = v
	}
	for _, p := range []struct {
		name   string
		target *float64
	}{
		{"max_drop_fraction", &th.MaxDropFraction},
		{"max_null_rate", &th.MaxNullRate},
		{"max_dup_rate", &th.MaxDupRate},
		{"max_range_error_rate", &th.MaxRangeErrorRate},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return th, fmt.Errorf("%s must be a number, got %q", p.name, raw)
		}
		*p.target = v
	}
	return th, nil
}

// SlaMonthHandler handles POST /api/admin/sla/{month}. Thresholds come from
// query params, falling back to the configured defaults.
func SlaMonthHandler(svc *services.SlaService, defaults models.SlaThresholds) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}
		month, err := monthFromPath(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		th, err := thresholdsFromQuery(r, defaults)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		verdict, err := svc.Evaluate(month, th)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "SLA evaluation failed: "+err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, verdict)
	}
}

// AnomalyMonthHandler handles POST /api/admin/anomaly/{month} with query
// params volume_keep, null_rate and null_col (demo/testing only).
func AnomalyMonthHandler(svc *services.AnomalyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}
		month, err := monthFromPath(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		q := r.URL.Query()
		volumeKeep := 1.0
		nullRate := 0.0
		nullCol := "prev"

		if raw := q.Get("volume_keep"); raw != "" {
			if volumeKeep, err = strconv.ParseFloat(raw, 64); err != nil {
				respondWithError(w, http.StatusBadRequest, "volume_keep must be a number")
				return
			}
		}
		if raw := q.Get("null_rate"); raw != "" {
			if nullRate, err = strconv.ParseFloat(raw, 64); err != nil {
				respondWithError(w, http.StatusBadRequest, "null_rate must be a number")
				return
			}
		}
		if raw := q.Get("null_col"); raw != "" {
			nullCol = raw
		}

		var changed int64
		// Volume drop first so the null injection works on the reduced set.
		if volumeKeep < 1.0 {
			n, err := svc.DropVolume(month, volumeKeep)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			changed += n
		}
		if nullRate > 0 {
			n, err := svc.InjectNullLike(month, nullRate, nullCol)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			changed += n
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"month":         month,
			"affected_rows": changed,
		})
	}
}

// SeedHandler handles POST /api/admin/seed with a JSON body naming either a
// month list or an inclusive range.
func SeedHandler(svc *services.SeedService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		var req models.SeedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
		defer r.Body.Close()

		months := req.Months
		if len(months) == 0 {
			if req.Start == "" || req.End == "" {
				respondWithError(w, http.StatusBadRequest, "Provide 'months' or both 'start' and 'end'")
				return
			}
			var err error
			months, err = utils.MonthsInclusive(req.Start, req.End)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		for _, m := range months {
			if !utils.IsMonthKey(m) {
				respondWithError(w, http.StatusBadRequest, "Month must match YYYY-MM, got "+m)
				return
			}
		}

		respondWithJSON(w, http.StatusOK, svc.Run(months))
	}
}
