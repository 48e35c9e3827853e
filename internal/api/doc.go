// Package api implements the HTTP surface: ingestion, alert listing and
// creation, rule management, the dashboard, and the audit read endpoint.
// Every route except /healthz passes through the auth middleware.
package api
