package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ChecksByVendor shows availability checks per minute for each vendor.
func ChecksByVendor() *timeseries.PanelBuilder {
	return vendorRate("Checks / min", "Availability checks per minute by vendor",
		`restock:sweep_checks:rate5m * 60`)
}

// SweepErrorsByVendor shows failed checks per minute for each vendor.
func SweepErrorsByVendor() *timeseries.PanelBuilder {
	return vendorRate("Check Errors / min", "Failed availability checks per minute by vendor",
		`restock:sweep_errors:rate5m * 60`).
		Thresholds(ThresholdsGreenYellowRed(0.1, 1)).
		ColorScheme(ColorSchemeThresholds())
}

// SweepDuration shows the p95 duration of a full sweep.
func SweepDuration() *timeseries.PanelBuilder {
	return series("Sweep Duration (p95)", "95th percentile duration of a full sweep").
		WithTarget(PromQuery(Quantile("0.95", "restock_sweep_duration_seconds", "15m"), "p95", "A")).
		Unit("s")
}

func vendorRate(title, desc, expr string) *timeseries.PanelBuilder {
	return series(title, desc).
		WithTarget(PromQuery(expr, "{{vendor}}", "A")).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip())
}
