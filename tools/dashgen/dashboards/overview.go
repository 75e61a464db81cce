// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/partsearch/tools/dashgen/panels"
)

// BuildOverview constructs the partsearch overview dashboard.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Partsearch Overview").
		Uid("partsearch-overview").
		Tags([]string{"partsearch", "octopart"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.MockUpStat()).
		WithPanel(panels.QuotaGauge()).
		WithPanel(panels.LimitHits()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("Octopart API").
		WithPanel(panels.APICallsRate()).
		WithPanel(panels.APICallLatency()).
		WithPanel(panels.APIErrorRate()).
		WithPanel(panels.ValidationFailures()))

	b.WithRow(dashboard.NewRowBuilder("Quota").
		WithPanel(panels.DailyUsage()))

	b.WithRow(dashboard.NewRowBuilder("Mock Server").
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
