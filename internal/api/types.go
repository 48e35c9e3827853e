package api

// LogEntry is the request body for POST /logs. Fields arrive untyped and
// are validated before conversion into a store.LogRecord.
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Source    string         `json:"source"`
	Context   map[string]any `json:"context,omitempty"`
}

// MetricEntry is the request body for POST /metrics.
type MetricEntry struct {
	Timestamp string            `json:"timestamp"`
	Name      string            `json:"name"`
	Value     *float64          `json:"value"`
	Labels    map[string]string `json:"labels,omitempty"`
}

// AlertEntry is the request body for POST /alerts.
type AlertEntry struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
	Severity  string `json:"severity"`
}

// AlertRuleEntry is the request body for POST /alerts/rules.
type AlertRuleEntry struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Expression string `json:"expression"`
	Enabled    *bool  `json:"enabled"`
	Severity   string `json:"severity"`
}

// Page is the pagination envelope for list responses.
type Page[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

// ExpositionResult is the response for Prometheus text-format ingestion.
type ExpositionResult struct {
	Accepted int `json:"accepted"`
}

// Widget is one dashboard widget. KPI widgets carry Value; list widgets
// carry Items.
type Widget struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Value int    `json:"value,omitempty"`
	Items any    `json:"items,omitempty"`
}

// DashboardResponse is the payload for GET /dashboard.
type DashboardResponse struct {
	Widgets []Widget `json:"widgets"`
}

// SourceCount is one entry of the top-error-sources widget.
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// errorResponse is the structured error body. Details lists every violated
// constraint for validation failures.
type errorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
