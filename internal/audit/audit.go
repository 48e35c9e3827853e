package audit

import (
	"github.com/watchkeep/watchkeep/internal/store"
)

// Action tags used across the service.
const (
	ActionLogIngest    = "log.ingest"
	ActionMetricIngest = "metric.ingest"
	ActionAlertCreate  = "alert.create"
	ActionRuleUpsert   = "alertrule.upsert"
	ActionRuleFired    = "alert.rule_fired"
)

// ActorRuleEngine is the actor recorded for alerts fired by the evaluator.
const ActorRuleEngine = "rule-engine"

// Recorder appends audit entries to the store's audit buffer.
type Recorder struct {
	store *store.Store
}

// NewRecorder creates a Recorder writing to st.
func NewRecorder(st *store.Store) *Recorder {
	return &Recorder{store: st}
}

// Record writes one audit entry. An empty actor is recorded as "system".
func (r *Recorder) Record(actor, action, resource string, details map[string]any) store.AuditEntry {
	if actor == "" {
		actor = "system"
	}
	return r.store.AppendAudit(store.AuditEntry{
		Actor:    actor,
		Action:   action,
		Resource: resource,
		Details:  details,
	})
}
