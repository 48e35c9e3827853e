// Package engine ties the store and the rule language together: the
// Evaluator runs one evaluation pass over a recency window, and the
// Scheduler drives it on a fixed interval. Overlapping ticks are skipped,
// never stacked.
package engine
