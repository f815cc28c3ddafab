package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// RequestRate shows HTTP requests per second.
func RequestRate() *timeseries.PanelBuilder {
	return series("Request Rate", "HTTP requests per second").
		WithTarget(PromQuery(`restock:http_requests:rate5m`, "req/s", "A")).
		Unit("reqps").
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip())
}

// LatencyPercentiles shows p50, p95 and p99 HTTP latency. Trigger endpoints
// block until their run ends, so the tail is dominated by sweeps.
func LatencyPercentiles() *timeseries.PanelBuilder {
	b := series("Latency Percentiles", "HTTP request duration percentiles")
	for i, q := range []string{"0.50", "0.95", "0.99"} {
		b = b.WithTarget(PromQuery(
			Quantile(q, "restock_http_request_duration_seconds", "5m"),
			"p"+q[2:],
			string(rune('A'+i)),
		))
	}
	return b.
		Unit("s").
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip())
}

// ErrorRate shows 5xx responses as a percentage of all requests.
func ErrorRate() *timeseries.PanelBuilder {
	return series("Error Rate %", "HTTP 5xx error rate as percentage of total requests").
		WithTarget(PromQuery(`restock:http_errors:rate5m / restock:http_requests:rate5m * 100`, "error %", "A")).
		Unit("percent").
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds())
}
