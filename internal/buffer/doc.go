// Package buffer provides a fixed-capacity FIFO ring buffer used as the
// storage primitive for logs, metrics, alerts, and audit entries.
package buffer
