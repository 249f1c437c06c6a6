// utils/months.go
package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"time"
)

const monthLayout = "2006-01"

// UnknownMonth is the load_month used when a filename carries no
// recognizable YYYY-MM token. Ingestion proceeds under this key.
const UnknownMonth = "unknown"

var (
	// A 4-digit year token immediately followed by a 2-digit month token,
	// hyphen-joined, e.g. "clickstream-enwiki-2025-09.tsv".
	filenameMonthRegex = regexp.MustCompile(`(?:^|[^0-9])(\d{4})-(\d{2})(?:[^0-9]|$)`)
	monthKeyRegex      = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

// DetectMonthFromFilename extracts the YYYY-MM key from a dump filename.
// Returns UnknownMonth if no such pattern is found; it never fails.
func DetectMonthFromFilename(path string) string {
	base := filepath.Base(path)
	matches := filenameMonthRegex.FindStringSubmatch(base)
	if len(matches) < 3 {
		return UnknownMonth
	}
	return matches[1] + "-" + matches[2]
}

// IsMonthKey reports whether s looks like a YYYY-MM month key.
func IsMonthKey(s string) bool {
	return monthKeyRegex.MatchString(s)
}

// PrevMonth returns the calendar month immediately preceding month,
// wrapping January back into the previous year's December.
func PrevMonth(month string) (string, error) {
	t, err := time.Parse(monthLayout, month)
	if err != nil {
		return "", fmt.Errorf("invalid month key %q: %w", month, err)
	}
	return t.AddDate(0, -1, 0).Format(monthLayout), nil
}

// MonthsInclusive expands [start, end] into the ordered list of month keys.
// Start and end are swapped if given in reverse.
func MonthsInclusive(start, end string) ([]string, error) {
	st, err := time.Parse(monthLayout, start)
	if err != nil {
		return nil, fmt.Errorf("invalid start month %q: %w", start, err)
	}
	et, err := time.Parse(monthLayout, end)
	if err != nil {
		return nil, fmt.Errorf("invalid end month %q: %w", end, err)
	}
	if st.After(et) {
		st, et = et, st
	}

	var months []string
	for cur := st; !cur.After(et); cur = cur.AddDate(0, 1, 0) {
		months = append(months, cur.Format(monthLayout))
	}
	return months, nil
}
