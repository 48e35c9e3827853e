package rules

import (
	"testing"

	"github.com/watchkeep/watchkeep/internal/store"
)

func points(name string, values ...float64) []store.MetricPoint {
	out := make([]store.MetricPoint, 0, len(values))
	for _, v := range values {
		out = append(out, store.MetricPoint{Name: name, Value: v})
	}
	return out
}

func TestMetricThresholdChecksOnlyMostRecent(t *testing.T) {
	rule := MetricThreshold{Metric: "cpu", Op: OpGT, Threshold: 50}

	// 55 appears earlier in the window but only the latest point (40) counts.
	if Eval(rule, points("cpu", 10, 55, 40), nil) {
		t.Error("Eval: fired on an earlier point above threshold")
	}
	if !Eval(rule, points("cpu", 10, 40, 55), nil) {
		t.Error("Eval: did not fire when the latest point is above threshold")
	}
}

func TestMetricThresholdIgnoresOtherNames(t *testing.T) {
	rule := MetricThreshold{Metric: "cpu", Op: OpGT, Threshold: 50}

	window := append(points("cpu", 60), points("mem", 10)...)
	if !Eval(rule, window, nil) {
		t.Error("Eval: a trailing point for another metric hid the cpu point")
	}

	if Eval(rule, points("mem", 99), nil) {
		t.Error("Eval: fired with no point for the rule's metric")
	}
	if Eval(rule, nil, nil) {
		t.Error("Eval: fired on an empty window")
	}
}

func TestMetricThresholdOperators(t *testing.T) {
	cases := []struct {
		op   CompareOp
		v    float64
		want bool
	}{
		{OpGT, 51, true},
		{OpGT, 50, false},
		{OpGTE, 50, true},
		{OpLT, 49, true},
		{OpLT, 50, false},
		{OpLTE, 50, true},
		{OpEQ, 50, true},
		{OpEQ, 49, false},
	}
	for _, tc := range cases {
		rule := MetricThreshold{Metric: "m", Op: tc.op, Threshold: 50}
		if got := Eval(rule, points("m", tc.v), nil); got != tc.want {
			t.Errorf("op %s value %g: got %v, want %v", tc.op, tc.v, got, tc.want)
		}
	}
}

func TestLogLevelIsExistenceCheck(t *testing.T) {
	rule := LogLevelIs{Level: store.LevelError}

	logs := []store.LogRecord{
		{Level: store.LevelInfo},
		{Level: store.LevelWarn},
	}
	if Eval(rule, nil, logs) {
		t.Error("Eval: fired without an ERROR record")
	}

	logs = append(logs, store.LogRecord{Level: store.LevelError})
	if !Eval(rule, nil, logs) {
		t.Error("Eval: did not fire after an ERROR record arrived")
	}
}

func TestEvalNilExprNeverMatches(t *testing.T) {
	if Eval(nil, points("cpu", 100), nil) {
		t.Error("Eval(nil): fired")
	}
}
