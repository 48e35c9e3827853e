package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/watchkeep/watchkeep/internal/audit"
	"github.com/watchkeep/watchkeep/internal/metrics"
	"github.com/watchkeep/watchkeep/internal/rules"
	"github.com/watchkeep/watchkeep/internal/store"
)

// AlertNotifier receives alerts as they fire. Implementations must not
// block the evaluation pass.
type AlertNotifier interface {
	AlertFired(a store.Alert)
}

// Evaluator runs rule evaluation passes against the telemetry store.
//
// There is deliberately no deduplication: a rule whose condition stays
// true fires a fresh alert on every pass.
type Evaluator struct {
	store    *store.Store
	audit    *audit.Recorder
	window   int
	notifier AlertNotifier

	now func() time.Time // injectable for deterministic tests
}

// NewEvaluator creates an Evaluator reading the last window records of
// each kind per pass. notifier may be nil.
func NewEvaluator(st *store.Store, rec *audit.Recorder, window int, notifier AlertNotifier) *Evaluator {
	return &Evaluator{
		store:    st,
		audit:    rec,
		window:   window,
		notifier: notifier,
		now:      time.Now,
	}
}

// RunPass evaluates every enabled rule once against the current window and
// returns the alerts fired. A failure in one rule never blocks the rest of
// the pass.
func (e *Evaluator) RunPass() []store.Alert {
	start := time.Now()
	recentMetrics := e.store.RecentMetrics(e.window)
	recentLogs := e.store.RecentLogs(e.window)

	var fired []store.Alert
	for _, rule := range e.store.Rules().List() {
		if !rule.Enabled {
			continue
		}
		if !e.ruleMatches(rule, recentMetrics, recentLogs) {
			continue
		}

		now := e.now()
		alert := store.Alert{
			ID:        fmt.Sprintf("%s:%d", rule.ID, now.UnixMilli()),
			Status:    store.AlertActive,
			Message:   "Rule matched: " + rule.Name,
			CreatedAt: now,
			Severity:  rule.Severity,
		}
		e.store.AppendAlert(alert)
		e.audit.Record(audit.ActorRuleEngine, audit.ActionRuleFired, rule.ID, map[string]any{
			"severity": rule.Severity,
		})
		fired = append(fired, alert)

		slog.Info("engine: rule fired",
			"rule", rule.ID,
			"severity", rule.Severity,
			"alert", alert.ID,
		)
		if e.notifier != nil {
			e.notifier.AlertFired(alert)
		}
	}

	metrics.ObservePass(time.Since(start), len(fired))
	return fired
}

// ruleMatches parses and evaluates one rule, isolating failures. An
// unrecognized expression is an inert rule, not an error.
func (e *Evaluator) ruleMatches(rule store.AlertRule, ms []store.MetricPoint, ls []store.LogRecord) (matched bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("engine: rule evaluation panicked", "rule", rule.ID, "panic", r)
			matched = false
		}
	}()

	expr, err := rules.Parse(rule.Expression)
	if err != nil {
		slog.Debug("engine: expression did not parse, rule is inert",
			"rule", rule.ID, "err", err)
		return false
	}
	return rules.Eval(expr, ms, ls)
}
