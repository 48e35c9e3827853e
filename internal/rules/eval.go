package rules

import "github.com/watchkeep/watchkeep/internal/store"

// Eval evaluates a parsed expression against a data window. It is a pure
// function: no state, no side effects. Windows are ordered oldest-first,
// matching store snapshots.
func Eval(e Expr, metrics []store.MetricPoint, logs []store.LogRecord) bool {
	switch v := e.(type) {
	case MetricThreshold:
		return evalMetricThreshold(v, metrics)
	case LogLevelIs:
		return evalLogLevelIs(v, logs)
	default:
		return false
	}
}

// evalMetricThreshold checks only the single most-recent point for the
// metric name; earlier points in the window are ignored.
func evalMetricThreshold(m MetricThreshold, metrics []store.MetricPoint) bool {
	for i := len(metrics) - 1; i >= 0; i-- {
		if metrics[i].Name != m.Metric {
			continue
		}
		return compare(metrics[i].Value, m.Op, m.Threshold)
	}
	return false
}

func evalLogLevelIs(l LogLevelIs, logs []store.LogRecord) bool {
	for _, rec := range logs {
		if rec.Level == l.Level {
			return true
		}
	}
	return false
}

func compare(v float64, op CompareOp, threshold float64) bool {
	switch op {
	case OpGT:
		return v > threshold
	case OpGTE:
		return v >= threshold
	case OpLT:
		return v < threshold
	case OpLTE:
		return v <= threshold
	case OpEQ:
		return v == threshold
	default:
		return false
	}
}
