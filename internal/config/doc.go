// Package config loads the server configuration from YAML with
// environment-variable overrides for every numeric knob, and watches the
// optional rules file for changes.
package config
