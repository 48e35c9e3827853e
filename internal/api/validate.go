package api

import (
	"time"

	"github.com/watchkeep/watchkeep/internal/store"
)

// parseInstant accepts an RFC 3339 timestamp, with or without fractional
// seconds.
func parseInstant(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// validateLogEntry returns every violated constraint; an empty slice means
// the entry is valid.
func validateLogEntry(e LogEntry) []string {
	var errs []string
	if _, ok := parseInstant(e.Timestamp); !ok {
		errs = append(errs, "timestamp (ISO 8601) is required")
	}
	if _, ok := store.ParseLevel(e.Level); !ok {
		errs = append(errs, "level must be one of DEBUG, INFO, WARN, ERROR")
	}
	if e.Message == "" {
		errs = append(errs, "message is required")
	}
	if e.Source == "" {
		errs = append(errs, "source is required")
	}
	return errs
}

func validateMetricEntry(e MetricEntry) []string {
	var errs []string
	if _, ok := parseInstant(e.Timestamp); !ok {
		errs = append(errs, "timestamp (ISO 8601) is required")
	}
	if e.Name == "" {
		errs = append(errs, "name is required")
	}
	if e.Value == nil {
		errs = append(errs, "value must be number")
	}
	return errs
}

func validateAlertEntry(e AlertEntry) []string {
	var errs []string
	if e.ID == "" {
		errs = append(errs, "id is required")
	}
	if _, ok := store.ParseAlertStatus(e.Status); !ok {
		errs = append(errs, "status must be ACTIVE or RESOLVED")
	}
	if e.Message == "" {
		errs = append(errs, "message is required")
	}
	if _, ok := parseInstant(e.CreatedAt); !ok {
		errs = append(errs, "createdAt must be ISO 8601 string")
	}
	if _, ok := store.ParseSeverity(e.Severity); !ok {
		errs = append(errs, "severity invalid")
	}
	return errs
}

func validateAlertRuleEntry(e AlertRuleEntry) []string {
	var errs []string
	if e.ID == "" {
		errs = append(errs, "id is required")
	}
	if e.Name == "" {
		errs = append(errs, "name is required")
	}
	if e.Expression == "" {
		errs = append(errs, "expression is required")
	}
	if e.Enabled == nil {
		errs = append(errs, "enabled must be boolean")
	}
	if _, ok := store.ParseSeverity(e.Severity); !ok {
		errs = append(errs, "severity invalid")
	}
	return errs
}
