package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.HTTPPort != DefaultHTTPPort {
		t.Errorf("HTTPPort: got %d, want %d", cfg.Server.HTTPPort, DefaultHTTPPort)
	}
	if cfg.Server.Buffers.Logs != DefaultLogsMax {
		t.Errorf("Buffers.Logs: got %d, want %d", cfg.Server.Buffers.Logs, DefaultLogsMax)
	}
	if cfg.Server.Buffers.Alerts != DefaultAlertsMax {
		t.Errorf("Buffers.Alerts: got %d, want %d", cfg.Server.Buffers.Alerts, DefaultAlertsMax)
	}
	if cfg.Server.Eval.IntervalMS != DefaultEvalIntervalMS {
		t.Errorf("Eval.IntervalMS: got %d, want %d", cfg.Server.Eval.IntervalMS, DefaultEvalIntervalMS)
	}
	if cfg.Server.Eval.Window != DefaultEvalWindow {
		t.Errorf("Eval.Window: got %d, want %d", cfg.Server.Eval.Window, DefaultEvalWindow)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  http_port: 9090
  buffers:
    logs: 100
    metrics: 200
    alerts: 30
    audits: 40
  eval:
    interval_ms: 2500
    window: 50
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != 9090 {
		t.Errorf("HTTPPort: got %d, want 9090", cfg.Server.HTTPPort)
	}
	if cfg.Server.Buffers.Metrics != 200 {
		t.Errorf("Buffers.Metrics: got %d, want 200", cfg.Server.Buffers.Metrics)
	}
	if cfg.Server.Eval.IntervalMS != 2500 {
		t.Errorf("Eval.IntervalMS: got %d, want 2500", cfg.Server.Eval.IntervalMS)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogsMax, "123")
	t.Setenv(EnvEvalIntervalMS, "777")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Buffers.Logs != 123 {
		t.Errorf("Buffers.Logs: got %d, want 123", cfg.Server.Buffers.Logs)
	}
	if cfg.Server.Eval.IntervalMS != 777 {
		t.Errorf("Eval.IntervalMS: got %d, want 777", cfg.Server.Eval.IntervalMS)
	}
}

func TestEnvOverrideNonNumericFallsBack(t *testing.T) {
	t.Setenv(EnvAlertsMax, "lots")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Buffers.Alerts != DefaultAlertsMax {
		t.Errorf("Buffers.Alerts: got %d, want default %d", cfg.Server.Buffers.Alerts, DefaultAlertsMax)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"zero capacity", "server:\n  buffers:\n    logs: 0\n"},
		{"negative interval", "server:\n  eval:\n    interval_ms: -5\n"},
		{"port out of range", "server:\n  http_port: 70000\n"},
		{"bad webhook type", "server:\n  webhooks:\n    - type: carrier-pigeon\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load: expected error, got nil")
			}
		})
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	body := `
rules:
  - id: high-cpu
    name: High CPU
    expression: "metric:cpu > 90"
    enabled: true
    severity: HIGH
  - id: any-error
    name: Errors present
    expression: "log.level == 'ERROR'"
    enabled: false
    severity: LOW
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("LoadRules: got %d rules, want 2", len(rules))
	}
	if rules[0].ID != "high-cpu" || !rules[0].Enabled || rules[0].Severity != "HIGH" {
		t.Errorf("rules[0]: got %+v", rules[0])
	}
	if rules[1].Enabled {
		t.Error("rules[1].Enabled: got true, want false")
	}
}

func TestLoadRulesRejectsMissingID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("rules:\n  - name: nameless\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRules(path); err == nil {
		t.Error("LoadRules: expected error for missing id")
	}
}

func TestWatchRulesReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte("rules: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan []RuleSpec, 1)
	go func() {
		_ = WatchRules(ctx, path, func(rs []RuleSpec) {
			select {
			case reloaded <- rs:
			default:
			}
		})
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	body := "rules:\n  - id: r1\n    name: one\n    expression: \"metric:cpu > 1\"\n    enabled: true\n    severity: LOW\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case rs := <-reloaded:
		if len(rs) != 1 || rs[0].ID != "r1" {
			t.Errorf("reloaded rules: got %+v", rs)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("rules file change was not observed")
	}
}
