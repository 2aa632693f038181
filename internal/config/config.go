// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Sheet source kinds.
const (
	SourceHTTP = "http"
	SourceFile = "file"
	SourceS3   = "s3"
)

// DefaultSheetURL is the published CSV export of the volunteer log.
const DefaultSheetURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vSd3Y8LLTPnQMRCWs2X7q2Jddy_aDwZNe0wMtZ5hLZm3gi5qcHqP398yRRzNxDG1V1VQDdjCtVl5ynN/pub?gid=207004733&single=true&output=csv"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SheetSource picks where the volunteer log is read from: http, file or s3.
	SheetSource string `koanf:"sheet_source"`

	// SheetURL is the CSV export fetched by the http source.
	SheetURL string `koanf:"sheet_url"`

	// SheetPath is the local export read by the file source.
	SheetPath string `koanf:"sheet_path"`

	// S3Bucket, S3Key and S3Region locate the export for the s3 source.
	S3Bucket string `koanf:"s3_bucket"`
	S3Key    string `koanf:"s3_key"`
	S3Region string `koanf:"s3_region"`

	// RefreshIntervalS is how often the sheet is reloaded. Zero disables periodic reloads.
	RefreshIntervalS int `koanf:"refresh_interval_s"`

	// FetchTimeoutMS bounds a single fetch attempt.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// FetchMaxAttempts caps attempts per fetch for the http source.
	FetchMaxAttempts int `koanf:"fetch_max_attempts"`

	// WatchFile reloads the file source whenever the file changes.
	WatchFile bool `koanf:"watch_file"`

	// CategoryHours overrides the fixed hours credited per activity category.
	CategoryHours map[string]float64 `koanf:"category_hours"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		SheetSource:      SourceHTTP,
		SheetURL:         DefaultSheetURL,
		S3Region:         "us-east-1",
		RefreshIntervalS: 300,
		FetchTimeoutMS:   10_000,
		FetchMaxAttempts: 3,
		WatchFile:        true,
	}
}

// RefreshInterval returns RefreshIntervalS as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalS) * time.Second
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// Validate checks that the selected source has what it needs.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	c.SheetSource = strings.ToLower(strings.TrimSpace(c.SheetSource))
	switch c.SheetSource {
	case SourceHTTP:
		if c.SheetURL == "" {
			return fmt.Errorf("%w: sheet_url must not be empty", ErrInvalidConfig)
		}
	case SourceFile:
		if c.SheetPath == "" {
			return fmt.Errorf("%w: sheet_path must not be empty", ErrInvalidConfig)
		}
	case SourceS3:
		if c.S3Bucket == "" || c.S3Key == "" {
			return fmt.Errorf("%w: s3_bucket and s3_key are required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown sheet_source %q", ErrInvalidConfig, c.SheetSource)
	}
	if c.RefreshIntervalS < 0 {
		return fmt.Errorf("%w: refresh_interval_s must not be negative", ErrInvalidConfig)
	}
	if c.FetchTimeoutMS <= 0 {
		return fmt.Errorf("%w: fetch_timeout_ms must be positive", ErrInvalidConfig)
	}
	if c.FetchMaxAttempts < 1 {
		return fmt.Errorf("%w: fetch_max_attempts must be at least 1", ErrInvalidConfig)
	}
	return nil
}
