package api

import (
	"sort"
	"time"

	"github.com/watchkeep/watchkeep/internal/store"
)

const (
	dashboardWindow  = 5 * time.Minute
	topSourcesLimit  = 5
	latestMetricsMax = 20
)

// buildDashboard aggregates the operations-overview widgets: KPI counts,
// top error sources over the last five minutes, and the latest point per
// metric name.
func (h *Handler) buildDashboard() DashboardResponse {
	logs := h.store.Logs()
	points := h.store.Metrics()
	alerts := h.store.Alerts()

	cutoff := h.now().Add(-dashboardWindow)

	recentLogs := 0
	recentErrors := 0
	bySource := make(map[string]int)
	for _, l := range logs {
		if l.Timestamp.Before(cutoff) {
			continue
		}
		recentLogs++
		if l.Level == store.LevelError {
			recentErrors++
			bySource[l.Source]++
		}
	}

	activeAlerts := 0
	for _, a := range alerts {
		if a.Status == store.AlertActive {
			activeAlerts++
		}
	}

	return DashboardResponse{
		Widgets: []Widget{
			{Type: "kpi", Title: "Logs (5m)", Value: recentLogs},
			{Type: "kpi", Title: "Errors (5m)", Value: recentErrors},
			{Type: "kpi", Title: "Active Alerts", Value: activeAlerts},
			{Type: "list", Title: "Top Error Sources (5m)", Items: topSources(bySource)},
			{Type: "metrics-latest", Title: "Latest Metrics Snapshot", Items: latestMetrics(points)},
		},
	}
}

// topSources ranks error sources by count, highest first, ties broken by
// source name for deterministic output.
func topSources(bySource map[string]int) []SourceCount {
	out := make([]SourceCount, 0, len(bySource))
	for source, count := range bySource {
		out = append(out, SourceCount{Source: source, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Source < out[j].Source
	})
	if len(out) > topSourcesLimit {
		out = out[:topSourcesLimit]
	}
	return out
}

// latestMetrics keeps the newest point per metric name, preserving the
// order in which names first appeared, capped to the last
// latestMetricsMax names.
func latestMetrics(points []store.MetricPoint) []store.MetricPoint {
	latest := make(map[string]store.MetricPoint)
	order := make([]string, 0)
	for _, p := range points {
		if _, seen := latest[p.Name]; !seen {
			order = append(order, p.Name)
		}
		latest[p.Name] = p
	}

	if len(order) > latestMetricsMax {
		order = order[len(order)-latestMetricsMax:]
	}
	out := make([]store.MetricPoint, 0, len(order))
	for _, name := range order {
		out = append(out, latest[name])
	}
	return out
}
