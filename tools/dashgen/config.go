package main

import "errors"

// KnownMetrics is the set of metric names exported by restock-tracker plus
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"restock_http_request_duration_seconds": true,
	"restock_http_requests_total":           true,

	// Health metrics.
	"restock_healthz_up": true,
	"restock_readyz_up":  true,

	// Sweep metrics.
	"restock_sweep_checks_total":           true,
	"restock_sweep_alerts_total":           true,
	"restock_sweep_errors_total":           true,
	"restock_sweep_duration_seconds":       true,
	"restock_sweep_last_success_timestamp": true,

	// Feed metrics.
	"restock_feed_pages_total":                 true,
	"restock_feed_alerts_total":                true,
	"restock_feed_errors_total":                true,
	"restock_feed_scan_duration_seconds":       true,
	"restock_feed_scan_last_success_timestamp": true,

	// Vendor transport metrics.
	"restock_fetch_requests_total":         true,
	"restock_fetch_retries_total":          true,
	"restock_fetch_daily_limit_hits_total": true,

	// Notification metrics.
	"restock_notifications_sent_total":    true,
	"restock_notification_failures_total": true,

	// Recording rules.
	"restock:http_requests:rate5m":  true,
	"restock:http_errors:rate5m":    true,
	"restock:sweep_checks:rate5m":   true,
	"restock:sweep_errors:rate5m":   true,
	"restock:feed_errors:rate5m":    true,
	"restock:fetch_retries:rate5m":  true,
	"restock:notifications:rate5m": true,

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
