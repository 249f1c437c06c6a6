// handlers/metrics_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/kngsoomin/clickstream-monitor/database"
	"github.com/kngsoomin/clickstream-monitor/utils"
)

// Helper to respond with JSON
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshalling JSON response: %v", err)
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper to respond with an error
func respondWithError(w http.ResponseWriter, code int, message string) {
	log.Printf("API Error %d: %s", code, message)
	respondWithJSON(w, code, map[string]string{"error": message})
}

// parseLimit reads an integer "limit" query param bounded to [1, max],
// falling back to def when absent.
func parseLimit(r *http.Request, def, max int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("limit must be an integer, got %q", raw)
	}
	if limit < 1 || limit > max {
		return 0, fmt.Errorf("limit must be between 1 and %d, got %d", max, limit)
	}
	return limit, nil
}

// GetMetricsHandler serves GET /api/metrics?month=YYYY-MM with the cached
// DQ summary for one month. A month that has never been validated is a 404,
// not a zero-valued summary.
func GetMetricsHandler(store *database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
			return
		}

		month := r.URL.Query().Get("month")
		if !utils.IsMonthKey(month) {
			respondWithError(w, http.StatusBadRequest, "Query param 'month' must match YYYY-MM")
			return
		}

		summary, err := store.GetMonthlySummary(month)
		if err != nil {
			if errors.Is(err, database.ErrSummaryNotFound) {
				respondWithError(w, http.StatusNotFound, "No metrics for month="+month)
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to read metrics: "+err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, summary)
	}
}

// GetTrendHandler serves GET /api/trend?limit=N with the most recent
// monthly summaries, newest first.
func GetTrendHandler(store *database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
			return
		}

		limit, err := parseLimit(r, 6, 60)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		summaries, err := store.GetRecentSummaries(limit)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to read trend: "+err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, summaries)
	}
}

// GetAuditHandler serves GET /api/audit?limit=N with the latest ingestion
// audit entries, newest first by insertion order.
func GetAuditHandler(store *database.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
			return
		}

		limit, err := parseLimit(r, 20, 200)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		entries, err := store.GetRecentAuditEntries(limit)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to read audit trail: "+err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, entries)
	}
}
