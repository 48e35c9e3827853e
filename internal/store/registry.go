package store

import "sync"

// Registry maps rule IDs to alert rules. Upsert replaces an existing rule
// wholesale; there is no field-level merge and no delete.
//
// Registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]AlertRule
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]AlertRule)}
}

// Upsert inserts rule, replacing any rule with the same ID.
func (r *Registry) Upsert(rule AlertRule) AlertRule {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[rule.ID] = rule
	return rule
}

// Get returns the rule with the given ID, if present.
func (r *Registry) Get(id string) (AlertRule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[id]
	return rule, ok
}

// List returns all rules. Order is not significant: rules are evaluated
// independently and alerts are additive.
func (r *Registry) List() []AlertRule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]AlertRule, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, rule)
	}
	return out
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}
