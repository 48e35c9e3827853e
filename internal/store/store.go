package store

import (
	"time"

	"github.com/watchkeep/watchkeep/internal/buffer"
)

// Capacities sizes the four record buffers independently.
type Capacities struct {
	Logs    int
	Metrics int
	Alerts  int
	Audits  int
}

// Store owns the log, metric, alert, and audit buffers and the rule
// registry for the lifetime of the process. Every other component holds a
// reference to a Store rather than its own copy of the data; reads return
// point-in-time snapshots.
//
// Store is safe for concurrent use.
type Store struct {
	logs    *buffer.Ring[LogRecord]
	metrics *buffer.Ring[MetricPoint]
	alerts  *buffer.Ring[Alert]
	audits  *buffer.Ring[AuditEntry]
	rules   *Registry

	now func() time.Time // injectable for deterministic tests
}

// New creates a Store with the given buffer capacities.
func New(c Capacities) *Store {
	return &Store{
		logs:    buffer.New[LogRecord](c.Logs),
		metrics: buffer.New[MetricPoint](c.Metrics),
		alerts:  buffer.New[Alert](c.Alerts),
		audits:  buffer.New[AuditEntry](c.Audits),
		rules:   NewRegistry(),
		now:     time.Now,
	}
}

// AppendLog stamps rec.ReceivedAt and stores it. Returns the stored record.
func (s *Store) AppendLog(rec LogRecord) LogRecord {
	rec.ReceivedAt = s.now()
	s.logs.Append(rec)
	return rec
}

// AppendMetric stamps p.ReceivedAt and stores it. Returns the stored point.
func (s *Store) AppendMetric(p MetricPoint) MetricPoint {
	p.ReceivedAt = s.now()
	s.metrics.Append(p)
	return p
}

// AppendAlert stores an alert as-is.
func (s *Store) AppendAlert(a Alert) Alert {
	s.alerts.Append(a)
	return a
}

// AppendAudit stores an audit entry, stamping At if the caller left it zero.
func (s *Store) AppendAudit(e AuditEntry) AuditEntry {
	if e.At.IsZero() {
		e.At = s.now()
	}
	s.audits.Append(e)
	return e
}

// Logs returns a snapshot of all buffered log records in insertion order.
func (s *Store) Logs() []LogRecord { return s.logs.Snapshot() }

// Metrics returns a snapshot of all buffered metric points.
func (s *Store) Metrics() []MetricPoint { return s.metrics.Snapshot() }

// Alerts returns a snapshot of all buffered alerts.
func (s *Store) Alerts() []Alert { return s.alerts.Snapshot() }

// Audits returns a snapshot of all buffered audit entries.
func (s *Store) Audits() []AuditEntry { return s.audits.Snapshot() }

// RecentLogs returns the last n log records.
func (s *Store) RecentLogs(n int) []LogRecord { return s.logs.RecentWindow(n) }

// RecentMetrics returns the last n metric points.
func (s *Store) RecentMetrics(n int) []MetricPoint { return s.metrics.RecentWindow(n) }

// RecentAudits returns the last n audit entries.
func (s *Store) RecentAudits(n int) []AuditEntry { return s.audits.RecentWindow(n) }

// RecentAlerts returns the last n alerts.
func (s *Store) RecentAlerts(n int) []Alert { return s.alerts.RecentWindow(n) }

// Rules returns the alert rule registry.
func (s *Store) Rules() *Registry { return s.rules }
