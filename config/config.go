// config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

// ClickstreamConfig describes where the monthly dump files come from and
// where the decompressed TSVs live locally.
type ClickstreamConfig struct {
	BaseURL            string `yaml:"base_url"`
	Lang               string `yaml:"lang"`
	RawDir             string `yaml:"raw_dir"`
	DownloadTimeoutStr string `yaml:"download_timeout"`
	DownloadTimeout    time.Duration // Parsed duration
}

// PipelineConfig carries the ingest batch size and the default SLA thresholds.
// These are defaults only: the evaluator always receives thresholds as an
// explicit argument, never by reading this struct itself.
type PipelineConfig struct {
	BatchSize         int     `yaml:"batch_size"`
	MinRows           int64   `yaml:"min_rows"`
	MaxDropFraction   float64 `yaml:"max_drop_fraction"`
	MaxNullRate       float64 `yaml:"max_null_rate"`
	MaxDupRate        float64 `yaml:"max_dup_rate"`
	MaxRangeErrorRate float64 `yaml:"max_range_error_rate"`
}

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Clickstream ClickstreamConfig `yaml:"clickstream"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
}

var AppConfig Config

// LoadConfig reads the YAML config file into AppConfig and applies
// environment overrides for the database connection details. Call
// godotenv.Load first if a .env file should feed those overrides.
func LoadConfig(configPath string) error {
	file, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(file, &AppConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Environment beats file for connection details so credentials can come
	// from a .env or the real environment instead of living in YAML.
	if v := os.Getenv("DB_HOST"); v != "" {
		AppConfig.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		AppConfig.Database.Port = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		AppConfig.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		AppConfig.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		AppConfig.Database.DBName = v
	}

	// Parse durations
	if AppConfig.Clickstream.DownloadTimeoutStr != "" {
		AppConfig.Clickstream.DownloadTimeout, err = time.ParseDuration(AppConfig.Clickstream.DownloadTimeoutStr)
		if err != nil {
			return fmt.Errorf("failed to parse download_timeout: %w", err)
		}
	} else {
		AppConfig.Clickstream.DownloadTimeout = 60 * time.Second // Default
	}

	if AppConfig.Clickstream.BaseURL == "" {
		AppConfig.Clickstream.BaseURL = "https://dumps.wikimedia.org/other/clickstream"
	}
	if AppConfig.Clickstream.Lang == "" {
		AppConfig.Clickstream.Lang = "enwiki"
	}
	if AppConfig.Clickstream.RawDir == "" {
		AppConfig.Clickstream.RawDir = "data/raw"
	}
	if AppConfig.Pipeline.BatchSize <= 0 {
		AppConfig.Pipeline.BatchSize = 500000
	}

	// The raw dir must exist before the fetcher or the SLA arrival check use it.
	if err := os.MkdirAll(AppConfig.Clickstream.RawDir, 0755); err != nil {
		return fmt.Errorf("failed to create raw data directory %s: %w", AppConfig.Clickstream.RawDir, err)
	}

	return nil
}
