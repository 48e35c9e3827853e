package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const prefix = "watchkeep_"

const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
)

var (
	registerOnce sync.Once

	ingestTotal  *prometheus.CounterVec
	evalPasses   prometheus.Counter
	evalDuration prometheus.Histogram
	alertsFired  prometheus.Counter
	ticksSkipped prometheus.Counter
)

// Register installs all collectors on the default registry. Safe to call
// more than once.
func Register() {
	registerOnce.Do(func() {
		ingestTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "ingest_total",
				Help: "Ingested records by kind and result",
			},
			[]string{"kind", "result"},
		)
		evalPasses = prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "eval_passes_total",
			Help: "Completed rule evaluation passes",
		})
		evalDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    prefix + "eval_pass_duration_seconds",
			Help:    "Duration of one rule evaluation pass",
			Buckets: prometheus.DefBuckets,
		})
		alertsFired = prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "alerts_fired_total",
			Help: "Alerts fired by the rule engine",
		})
		ticksSkipped = prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "scheduler_ticks_skipped_total",
			Help: "Scheduler ticks skipped because a pass was still running",
		})

		prometheus.MustRegister(
			ingestTotal,
			evalPasses,
			evalDuration,
			alertsFired,
			ticksSkipped,
		)
	})
}

// IncIngest counts one ingest attempt. kind is "log" or "metric".
func IncIngest(kind, result string) {
	if ingestTotal != nil {
		ingestTotal.WithLabelValues(kind, result).Inc()
	}
}

// ObservePass records one completed evaluation pass.
func ObservePass(d time.Duration, fired int) {
	if evalPasses != nil {
		evalPasses.Inc()
		evalDuration.Observe(d.Seconds())
		alertsFired.Add(float64(fired))
	}
}

// IncTickSkipped counts one skipped scheduler tick.
func IncTickSkipped() {
	if ticksSkipped != nil {
		ticksSkipped.Inc()
	}
}

// Handler exposes the default registry in Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
