// Package metrics registers the service's operational Prometheus
// collectors. These describe the engine itself and are unrelated to the
// metric points ingested through the API.
package metrics
