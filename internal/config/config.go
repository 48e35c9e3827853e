package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort       = 8080
	DefaultLogsMax        = 20000
	DefaultMetricsMax     = 20000
	DefaultAlertsMax      = 2000
	DefaultAuditsMax      = 5000
	DefaultEvalIntervalMS = 10000
	DefaultEvalWindow     = 500
)

// Environment override names. Unset or non-numeric values silently fall
// back to the configured (or default) value.
const (
	EnvLogsMax        = "WATCHKEEP_BUFFER_LOGS_MAX"
	EnvMetricsMax     = "WATCHKEEP_BUFFER_METRICS_MAX"
	EnvAlertsMax      = "WATCHKEEP_BUFFER_ALERTS_MAX"
	EnvAuditsMax      = "WATCHKEEP_BUFFER_AUDITS_MAX"
	EnvEvalIntervalMS = "WATCHKEEP_RULE_EVAL_INTERVAL_MS"
	EnvEvalWindow     = "WATCHKEEP_RULE_EVAL_WINDOW"
	EnvHTTPPort       = "WATCHKEEP_HTTP_PORT"
)

// Config holds the configuration parsed from the `server:` section of the
// config file.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all server-side settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API and WebSocket hub listen on.
	HTTPPort int `yaml:"http_port"`

	// Buffers sizes the four in-memory record buffers.
	Buffers BufferConfig `yaml:"buffers"`

	// Eval controls the periodic rule evaluation loop.
	Eval EvalConfig `yaml:"eval"`

	// Auth configures credential verification.
	Auth AuthConfig `yaml:"auth"`

	// RulesFile optionally seeds the rule registry from a YAML file and is
	// watched for changes at runtime.
	RulesFile string `yaml:"rules_file"`

	// Webhooks are alert notification targets.
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// BufferConfig holds the per-kind buffer capacities.
type BufferConfig struct {
	Logs    int `yaml:"logs"`
	Metrics int `yaml:"metrics"`
	Alerts  int `yaml:"alerts"`
	Audits  int `yaml:"audits"`
}

// EvalConfig controls the evaluation cadence and window.
type EvalConfig struct {
	// IntervalMS is the tick interval in milliseconds.
	IntervalMS int `yaml:"interval_ms"`

	// Window is the number of most-recent records of each kind considered
	// per pass. It is a record count, not a time span.
	Window int `yaml:"window"`
}

// AuthConfig points at the environment variables holding secrets so the
// secrets themselves stay out of the config file.
type AuthConfig struct {
	// SecretEnv names the environment variable with the HMAC secret used
	// to verify bearer tokens. Empty disables bearer auth.
	SecretEnv string `yaml:"secret_env"`

	// IngestKeyEnv names the environment variable with the ingestion API
	// key. Empty disables API key classification.
	IngestKeyEnv string `yaml:"ingest_key_env"`
}

// Secret returns the bearer verification secret resolved from the environment.
func (a AuthConfig) Secret() []byte {
	if a.SecretEnv == "" {
		return nil
	}
	return []byte(os.Getenv(a.SecretEnv))
}

// IngestKey returns the ingestion API key resolved from the environment.
func (a AuthConfig) IngestKey() string {
	if a.IngestKeyEnv == "" {
		return ""
	}
	return os.Getenv(a.IngestKeyEnv)
}

// WebhookConfig defines one alert notification target.
type WebhookConfig struct {
	// Type is one of: slack | http.
	Type string `yaml:"type"`

	// URLEnv names the environment variable that holds the webhook URL.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty), then environment overrides, then validation.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
			Buffers: BufferConfig{
				Logs:    DefaultLogsMax,
				Metrics: DefaultMetricsMax,
				Alerts:  DefaultAlertsMax,
				Audits:  DefaultAuditsMax,
			},
			Eval: EvalConfig{
				IntervalMS: DefaultEvalIntervalMS,
				Window:     DefaultEvalWindow,
			},
		},
	}
}

// applyEnv overlays environment overrides onto cfg.
func applyEnv(cfg *Config) {
	overrideInt(&cfg.Server.Buffers.Logs, EnvLogsMax)
	overrideInt(&cfg.Server.Buffers.Metrics, EnvMetricsMax)
	overrideInt(&cfg.Server.Buffers.Alerts, EnvAlertsMax)
	overrideInt(&cfg.Server.Buffers.Audits, EnvAuditsMax)
	overrideInt(&cfg.Server.Eval.IntervalMS, EnvEvalIntervalMS)
	overrideInt(&cfg.Server.Eval.Window, EnvEvalWindow)
	overrideInt(&cfg.Server.HTTPPort, EnvHTTPPort)
}

// overrideInt replaces *dst with the value of the environment variable
// when it is set and numeric; otherwise *dst is left alone.
func overrideInt(dst *int, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*dst = n
}

// validate checks structural constraints on the assembled configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	for _, b := range []struct {
		name string
		v    int
	}{
		{"server.buffers.logs", cfg.Server.Buffers.Logs},
		{"server.buffers.metrics", cfg.Server.Buffers.Metrics},
		{"server.buffers.alerts", cfg.Server.Buffers.Alerts},
		{"server.buffers.audits", cfg.Server.Buffers.Audits},
	} {
		if b.v < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", b.name, b.v)
		}
	}
	if cfg.Server.Eval.IntervalMS < 1 {
		return fmt.Errorf("server.eval.interval_ms must be positive, got %d", cfg.Server.Eval.IntervalMS)
	}
	if cfg.Server.Eval.Window < 1 {
		return fmt.Errorf("server.eval.window must be positive, got %d", cfg.Server.Eval.Window)
	}
	for _, wh := range cfg.Server.Webhooks {
		switch wh.Type {
		case "slack", "http":
		default:
			return fmt.Errorf("webhook type %q unknown: want slack|http", wh.Type)
		}
	}
	return nil
}
