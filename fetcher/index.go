// fetcher/index.go
package fetcher

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Month directories on the dumps index look like "2025-09/".
var indexMonthRegex = regexp.MustCompile(`^(\d{4}-\d{2})/?$`)

// PublishedMonths scrapes the clickstream dumps index page and returns the
// month keys that have a published dump directory, oldest first.
func (f *Fetcher) PublishedMonths() ([]string, error) {
	req, err := http.NewRequest(http.MethodGet, f.BaseURL+"/", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build index request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get dumps index %s: %w", f.BaseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get dumps index %s: status code %d", f.BaseURL, resp.StatusCode)
	}

	months, err := parsePublishedMonths(resp.Body)
	if err != nil {
		return nil, err
	}
	log.Printf("Fetcher: dumps index lists %d published months.\n", len(months))
	return months, nil
}

// parsePublishedMonths extracts month directory links from the index HTML.
func parsePublishedMonths(body io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dumps index HTML: %w", err)
	}

	seen := make(map[string]bool)
	doc.Find("a").Each(func(i int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		m := indexMonthRegex.FindStringSubmatch(strings.TrimSpace(href))
		if m == nil {
			return
		}
		seen[m[1]] = true
	})

	months := make([]string, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Strings(months)
	return months, nil
}

// MonthPublished reports whether the upstream index lists a dump for month.
// Lets callers fail fast before attempting a download that would 404.
func (f *Fetcher) MonthPublished(month string) (bool, error) {
	months, err := f.PublishedMonths()
	if err != nil {
		return false, err
	}
	for _, m := range months {
		if m == month {
			return true, nil
		}
	}
	return false, nil
}
