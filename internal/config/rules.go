package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// RuleSpec is one alert rule as declared in the rules file. Severity is
// kept as a raw string here; callers validate it against the store's enum
// when upserting.
type RuleSpec struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Expression string `yaml:"expression"`
	Enabled    bool   `yaml:"enabled"`
	Severity   string `yaml:"severity"`
}

type rulesFile struct {
	Rules []RuleSpec `yaml:"rules"`
}

// LoadRules reads the rules seed file at path.
func LoadRules(path string) ([]RuleSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rules: read %q: %w", path, err)
	}
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("rules: parse yaml: %w", err)
	}
	for i, r := range f.Rules {
		if r.ID == "" {
			return nil, fmt.Errorf("rules: entry %d has no id", i)
		}
	}
	return f.Rules, nil
}

// WatchRules monitors the rules file and calls onChange with the freshly
// loaded rules each time the file is written. It runs until ctx is
// cancelled.
//
// If a reload fails (e.g., invalid YAML), the error is logged and the
// previously applied rules stay in effect and onChange is not called.
func WatchRules(ctx context.Context, path string, onChange func([]RuleSpec)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	slog.Info("rules: watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors often save via rename (atomic write), so catch Create
			// alongside Write.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			rules, err := LoadRules(path)
			if err != nil {
				slog.Error("rules: reload failed, keeping previous rules",
					"path", path, "err", err)
				continue
			}

			slog.Info("rules: reloaded", "path", path, "count", len(rules))
			onChange(rules)

			// Re-add the file in case an atomic save replaced the inode.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("rules: watcher error", "err", err)
		}
	}
}
