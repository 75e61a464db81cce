package main

import "errors"

// KnownMetrics is the set of metric names exported by partsearch plus the
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// Octopart client metrics.
	"partsearch_api_calls_total":                  true,
	"partsearch_api_call_duration_seconds_bucket": true,
	"partsearch_validation_failures_total":        true,

	// Quota metrics.
	"partsearch_daily_usage":            true,
	"partsearch_daily_limit_hits_total": true,

	// Mock server metrics.
	"partsearch_http_request_duration_seconds_bucket": true,
	"partsearch_http_requests_total":                  true,

	// Recording rules.
	"partsearch:api_calls:rate5m":           true,
	"partsearch:api_errors:rate5m":          true,
	"partsearch:validation_failures:rate5m": true,
	"partsearch:http_requests:rate5m":       true,
	"partsearch:http_errors:rate5m":         true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
