package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return newRule("restock-recording-rules", Group{
		Name: "restock-recording",
		Rules: []Rule{
			{
				Record: "restock:http_requests:rate5m",
				Expr:   `sum(rate(restock_http_requests_total[5m]))`,
			},
			{
				Record: "restock:http_errors:rate5m",
				Expr:   `sum(rate(restock_http_requests_total{status=~"5.."}[5m]))`,
			},
			{
				Record: "restock:sweep_checks:rate5m",
				Expr:   `sum(rate(restock_sweep_checks_total[5m])) by (vendor)`,
			},
			{
				Record: "restock:sweep_errors:rate5m",
				Expr:   `sum(rate(restock_sweep_errors_total[5m])) by (vendor)`,
			},
			{
				Record: "restock:feed_errors:rate5m",
				Expr:   `rate(restock_feed_errors_total[5m])`,
			},
			{
				Record: "restock:fetch_retries:rate5m",
				Expr:   `sum(rate(restock_fetch_retries_total[5m])) by (vendor)`,
			},
			{
				Record: "restock:notifications:rate5m",
				Expr:   `sum(rate(restock_notifications_sent_total[5m])) by (channel)`,
			},
		},
	})
}
