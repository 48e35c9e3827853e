// Package notify delivers fired alerts to configured webhook targets.
// Delivery is asynchronous and best-effort; failures are logged, never
// retried, and never block the evaluation pass.
package notify
