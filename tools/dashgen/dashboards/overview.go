// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/restock-tracker/tools/dashgen/panels"
)

// BuildOverview constructs the Restock Overview dashboard with all metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Restock Overview").
		Uid("restock-overview").
		Tags([]string{"restock", "restock-tracker"}).
		Refresh("1m").
		Time("now-24h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.LastSweep()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("Sweeps").
		WithPanel(panels.ChecksByVendor()).
		WithPanel(panels.SweepErrorsByVendor()).
		WithPanel(panels.SweepDuration()))

	b.WithRow(dashboard.NewRowBuilder("BigBasket Feed").
		WithPanel(panels.LastFeedScan()).
		WithPanel(panels.FeedAlerts24h()).
		WithPanel(panels.FeedPages()).
		WithPanel(panels.FeedScanDuration()))

	b.WithRow(dashboard.NewRowBuilder("Vendor APIs").
		WithPanel(panels.FetchOutcomes()).
		WithPanel(panels.Retries()).
		WithPanel(panels.DailyLimitHits()))

	b.WithRow(dashboard.NewRowBuilder("Alerts").
		WithPanel(panels.AlertsRate()).
		WithPanel(panels.NotificationsByChannel()).
		WithPanel(panels.NotificationFailures()))

	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
