package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// restock-tracker operational monitoring.
func AlertRules() PrometheusRule {
	return newRule("restock-alerts", Group{
		Name: "restock-alerts",
		Rules: []Rule{
			alert("RestockDown", `absent(up{job="restock-tracker"})`, "2m", "critical",
				"Restock Tracker is down",
				"The restock-tracker job has been absent for more than 2 minutes."),
			alert("RestockSchedulerNotReady", `restock_readyz_up == 0`, "5m", "critical",
				"Restock Tracker scheduler is not running",
				"The readiness probe has been reporting not-ready for more than 5 minutes."),
			alert("RestockHighErrorRate", `restock:http_errors:rate5m / restock:http_requests:rate5m > 0.05`, "5m", "warning",
				"High HTTP error rate on Restock Tracker",
				"More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes."),
			alert("RestockSweepStale", `time() - restock_sweep_last_success_timestamp > 3600`, "10m", "warning",
				"No sweep has completed in the last hour",
				"Scheduled sweeps are failing or timing out."),
			alert("RestockVendorErrors", `restock:sweep_errors:rate5m > 0 and restock:sweep_errors:rate5m == restock:sweep_checks:rate5m`, "15m", "warning",
				"Every check against a vendor is failing",
				"All availability checks for vendor {{ $labels.vendor }} have failed for 15 minutes."),
			alert("RestockFeedErrors", `restock:feed_errors:rate5m > 0`, "30m", "warning",
				"BigBasket listing pages are failing",
				"Feed page fetches have been failing for 30 minutes. The session cookie may have expired."),
			alert("RestockDailyLimitReached", `increase(restock_fetch_daily_limit_hits_total[5m]) > 0`, "0m", "warning",
				"A vendor daily request budget has been reached",
				"Checks for vendor {{ $labels.vendor }} are skipped until the budget resets."),
			alert("RestockNotificationFailures", `increase(restock_notification_failures_total[5m]) > 0`, "1m", "warning",
				"Notification delivery failures detected",
				"One or more alerts failed to send on channel {{ $labels.channel }}."),
		},
	})
}

func alert(name, expr, forDuration, severity, summary, description string) Rule {
	return Rule{
		Alert: name,
		Expr:  expr,
		For:   forDuration,
		Labels: map[string]string{
			"severity": severity,
		},
		Annotations: map[string]string{
			"summary":     summary,
			"description": description,
		},
	}
}
