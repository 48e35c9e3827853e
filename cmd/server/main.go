package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/watchkeep/watchkeep/internal/api"
	"github.com/watchkeep/watchkeep/internal/audit"
	"github.com/watchkeep/watchkeep/internal/auth"
	"github.com/watchkeep/watchkeep/internal/config"
	"github.com/watchkeep/watchkeep/internal/engine"
	"github.com/watchkeep/watchkeep/internal/metrics"
	"github.com/watchkeep/watchkeep/internal/notify"
	"github.com/watchkeep/watchkeep/internal/store"
	"github.com/watchkeep/watchkeep/internal/ws"
)

const alertStreamInterval = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "path to config file (optional; defaults apply without one)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("watchkeep-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"buffer_logs", cfg.Server.Buffers.Logs,
		"buffer_metrics", cfg.Server.Buffers.Metrics,
		"buffer_alerts", cfg.Server.Buffers.Alerts,
		"buffer_audits", cfg.Server.Buffers.Audits,
		"eval_interval_ms", cfg.Server.Eval.IntervalMS,
		"eval_window", cfg.Server.Eval.Window,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	metrics.Register()

	st := store.New(store.Capacities{
		Logs:    cfg.Server.Buffers.Logs,
		Metrics: cfg.Server.Buffers.Metrics,
		Alerts:  cfg.Server.Buffers.Alerts,
		Audits:  cfg.Server.Buffers.Audits,
	})
	recorder := audit.NewRecorder(st)

	// Credential verification. Handlers only ever see the resulting Principal.
	verifier := auth.NewJWTVerifier(cfg.Server.Auth.Secret())
	mw := auth.NewMiddleware(verifier, cfg.Server.Auth.IngestKey())

	// Alert webhooks.
	targets := make([]notify.Target, 0, len(cfg.Server.Webhooks))
	for _, wh := range cfg.Server.Webhooks {
		targets = append(targets, notify.Target{Type: wh.Type, URL: wh.URL()})
	}
	notifier := notify.NewWebhook(targets)

	// Rule evaluation on a fixed interval.
	evaluator := engine.NewEvaluator(st, recorder, cfg.Server.Eval.Window, notifier)
	scheduler := engine.NewScheduler(evaluator)
	scheduler.Start(time.Duration(cfg.Server.Eval.IntervalMS) * time.Millisecond)
	defer scheduler.Stop()

	// Seed the rule registry from the rules file and follow changes.
	if cfg.Server.RulesFile != "" {
		seedRules(st, cfg.Server.RulesFile)
		go func() {
			if err := config.WatchRules(ctx, cfg.Server.RulesFile, func(specs []config.RuleSpec) {
				applyRules(st, specs)
			}); err != nil {
				slog.Error("rules watcher stopped", "err", err)
			}
		}()
	}

	// WebSocket hub streaming recent alerts to dashboard clients.
	hub := ws.New(st, alertStreamInterval)
	go hub.Run(ctx)

	httpMux := http.NewServeMux()
	httpMux.Handle("/", api.New(st, recorder, mw))
	httpMux.Handle("/ws/alerts", hub)
	httpMux.Handle("/system/metrics", metrics.Handler())

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("watchkeep-server shutting down")
	scheduler.Stop()
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}

func seedRules(st *store.Store, path string) {
	specs, err := config.LoadRules(path)
	if err != nil {
		slog.Error("failed to load rules file", "path", path, "err", err)
		return
	}
	applyRules(st, specs)
}

// applyRules upserts every valid rule spec into the registry. A spec with
// an unknown severity is skipped, not defaulted.
func applyRules(st *store.Store, specs []config.RuleSpec) {
	applied := 0
	for _, spec := range specs {
		severity, ok := store.ParseSeverity(spec.Severity)
		if !ok {
			slog.Warn("skipping rule with invalid severity",
				"rule", spec.ID, "severity", spec.Severity)
			continue
		}
		st.Rules().Upsert(store.AlertRule{
			ID:         spec.ID,
			Name:       spec.Name,
			Expression: spec.Expression,
			Enabled:    spec.Enabled,
			Severity:   severity,
		})
		applied++
	}
	slog.Info("rules applied", "count", applied)
}
