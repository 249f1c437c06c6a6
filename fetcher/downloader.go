// fetcher/downloader.go
package fetcher

import (
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/kngsoomin/clickstream-monitor/config"
	"github.com/kngsoomin/clickstream-monitor/utils"
)

const userAgent = "Mozilla/5.0 (compatible; ClickstreamMonitor/1.0; +https://github.com/kngsoomin)"

// Fetcher downloads and decompresses monthly clickstream dumps into the
// local raw directory.
type Fetcher struct {
	BaseURL string
	Lang    string
	RawDir  string
	client  *http.Client
}

// New builds a Fetcher from the clickstream section of the config.
func New(cfg config.ClickstreamConfig) *Fetcher {
	return &Fetcher{
		BaseURL: cfg.BaseURL,
		Lang:    cfg.Lang,
		RawDir:  cfg.RawDir,
		client:  &http.Client{Timeout: cfg.DownloadTimeout},
	}
}

// URLForMonth returns the upstream URL of one monthly dump, e.g.
// <base>/2025-09/clickstream-enwiki-2025-09.tsv.gz
func (f *Fetcher) URLForMonth(month string) string {
	return fmt.Sprintf("%s/%s/clickstream-%s-%s.tsv.gz", f.BaseURL, month, f.Lang, month)
}

// TSVPathForMonth returns where the decompressed dump for a month lives locally.
func (f *Fetcher) TSVPathForMonth(month string) string {
	return filepath.Join(f.RawDir, fmt.Sprintf("clickstream-%s-%s.tsv", f.Lang, month))
}

// FetchMonth downloads and decompresses one month's dump, skipping steps
// whose output already exists. Returns the local TSV path.
func (f *Fetcher) FetchMonth(month string) (string, error) {
	if !utils.IsMonthKey(month) {
		return "", fmt.Errorf("invalid month key %q (want YYYY-MM)", month)
	}

	gzPath := filepath.Join(f.RawDir, fmt.Sprintf("clickstream-%s-%s.tsv.gz", f.Lang, month))
	tsvPath := f.TSVPathForMonth(month)

	if err := f.download(f.URLForMonth(month), gzPath); err != nil {
		return "", fmt.Errorf("failed to fetch dump for month %s: %w", month, err)
	}
	if err := gunzip(gzPath, tsvPath); err != nil {
		return "", fmt.Errorf("failed to decompress dump for month %s: %w", month, err)
	}
	return tsvPath, nil
}

// download saves a URL to a local path with a few retries. Already
// downloaded files are left alone so re-seeding is cheap.
func (f *Fetcher) download(url, localSavePath string) error {
	if _, err := os.Stat(localSavePath); err == nil {
		log.Printf("Fetcher: %s already exists, skipping download.\n", filepath.Base(localSavePath))
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(localSavePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", localSavePath, err)
	}

	const retries = 3
	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		log.Printf("Fetcher: GET %s (attempt %d/%d)\n", url, attempt, retries)
		if err := f.downloadOnce(url, localSavePath); err != nil {
			lastErr = err
			log.Printf("WARN Fetcher: attempt %d/%d failed: %v\n", attempt, retries, err)
			time.Sleep(time.Duration(1+attempt) * time.Second)
			continue
		}
		log.Printf("Fetcher: saved %s\n", localSavePath)
		return nil
	}
	return fmt.Errorf("failed to download %s after %d attempts: %w", url, retries, lastErr)
}

func (f *Fetcher) downloadOnce(url, localSavePath string) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make GET request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download %s: received status code %d", url, resp.StatusCode)
	}

	// Write to a temp file first so a broken download never masquerades as
	// a complete one on retry.
	tmpPath := localSavePath + ".part"
	outFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", tmpPath, err)
	}

	if _, err := io.Copy(outFile, resp.Body); err != nil {
		outFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy downloaded content to %s: %w", tmpPath, err)
	}
	if err := outFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}
	return os.Rename(tmpPath, localSavePath)
}

// gunzip decompresses src into dst, skipping if dst already exists.
func gunzip(src, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		log.Printf("Fetcher: %s already exists, skipping decompress.\n", filepath.Base(dst))
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	gz, err := gzip.NewReader(in)
	if err != nil {
		return fmt.Errorf("failed to open gzip stream from %s: %w", src, err)
	}
	defer gz.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	log.Printf("Fetcher: decompressing %s -> %s\n", filepath.Base(src), filepath.Base(dst))
	if _, err := io.Copy(out, gz); err != nil {
		return fmt.Errorf("failed to decompress %s: %w", src, err)
	}
	return nil
}

// RawFilesForMonth lists the local TSVs whose filename resolves to the given
// month key. Used by the ingest trigger and the SLA arrival check.
func (f *Fetcher) RawFilesForMonth(month string) ([]string, error) {
	pattern := filepath.Join(f.RawDir, "*.tsv")
	candidates, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to glob raw dir %s: %w", f.RawDir, err)
	}

	var files []string
	for _, p := range candidates {
		if utils.DetectMonthFromFilename(p) == month {
			files = append(files, p)
		}
	}
	return files, nil
}
