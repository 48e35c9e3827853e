// Package ws streams the recent alerts window to dashboard clients over
// WebSocket.
package ws
