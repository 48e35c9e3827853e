package store

import "time"

// Level is a log severity level.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// ParseLevel validates a level string.
func ParseLevel(value string) (Level, bool) {
	switch Level(value) {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return Level(value), true
	default:
		return "", false
	}
}

// Severity classifies alerts and alert rules.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// ParseSeverity validates a severity string.
func ParseSeverity(value string) (Severity, bool) {
	switch Severity(value) {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return Severity(value), true
	default:
		return "", false
	}
}

// AlertStatus is the lifecycle state of an alert.
type AlertStatus string

const (
	AlertActive   AlertStatus = "ACTIVE"
	AlertResolved AlertStatus = "RESOLVED"
)

// ParseAlertStatus validates an alert status string.
func ParseAlertStatus(value string) (AlertStatus, bool) {
	switch AlertStatus(value) {
	case AlertActive, AlertResolved:
		return AlertStatus(value), true
	default:
		return "", false
	}
}

// LogRecord is one ingested log event. Immutable once stored.
type LogRecord struct {
	Timestamp  time.Time      `json:"timestamp"`
	Level      Level          `json:"level"`
	Message    string         `json:"message"`
	Source     string         `json:"source"`
	Context    map[string]any `json:"context,omitempty"`
	ReceivedAt time.Time      `json:"receivedAt"`
}

// MetricPoint is one ingested metric sample. Immutable once stored.
type MetricPoint struct {
	Timestamp  time.Time         `json:"timestamp"`
	Name       string            `json:"name"`
	Value      float64           `json:"value"`
	Labels     map[string]string `json:"labels,omitempty"`
	ReceivedAt time.Time         `json:"receivedAt"`
}

// Alert is a materialized rule match or a manually created alert.
// Append-only: alerts are never updated in place.
type Alert struct {
	ID        string      `json:"id"`
	Status    AlertStatus `json:"status"`
	Message   string      `json:"message"`
	CreatedAt time.Time   `json:"createdAt"`
	Severity  Severity    `json:"severity"`
}

// AlertRule is an operator-defined predicate evaluated on every tick.
// Identity is the ID; upsert replaces a rule wholesale.
type AlertRule struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Expression string   `json:"expression"`
	Enabled    bool     `json:"enabled"`
	Severity   Severity `json:"severity"`
}

// AuditEntry is a write-once record of a mutating action.
type AuditEntry struct {
	Actor    string         `json:"actor"`
	Action   string         `json:"action"`
	Resource string         `json:"resource"`
	Details  map[string]any `json:"details,omitempty"`
	At       time.Time      `json:"at"`
}
