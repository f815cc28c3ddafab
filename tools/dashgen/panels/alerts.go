package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// AlertsRate shows restock alerts by vendor and feed offer alerts per hour.
func AlertsRate() *timeseries.PanelBuilder {
	return series("Alerts / hour", "Restock alerts by vendor and feed offer alerts per hour").
		WithTarget(PromQuery(`sum(rate(restock_sweep_alerts_total{`+Job+`}[1h])) by (vendor) * 3600`, "{{vendor}}", "A")).
		WithTarget(PromQuery(`rate(restock_feed_alerts_total{`+Job+`}[1h]) * 3600`, "bigbasket", "B")).
		Tooltip(MultiTooltip()).
		DrawStyle(common.GraphDrawStyleBars)
}

// NotificationsByChannel shows delivered notifications per minute.
func NotificationsByChannel() *timeseries.PanelBuilder {
	return series("Notifications / min", "Delivered notifications per minute by channel").
		WithTarget(PromQuery(`restock:notifications:rate5m * 60`, "{{channel}}", "A"))
}

// NotificationFailures counts failed deliveries in the last 24 hours.
func NotificationFailures() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Notification Failures (24h)").
		Description("Failed notification deliveries in the last 24 hours").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(`sum(increase(restock_notification_failures_total{`+Job+`}[24h]))`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
