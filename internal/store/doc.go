// Package store holds the engine's single piece of shared mutable state:
// one bounded buffer per record kind plus the alert rule registry. All
// reads return snapshot copies, so callers never observe a mutation in
// progress.
package store
