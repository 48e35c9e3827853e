// Package audit records write-once audit entries for every mutating
// action: ingestion, alert creation, rule changes, and rule firings.
package audit
