package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/watchkeep/watchkeep/internal/store"
)

// Target is one webhook destination.
type Target struct {
	// Type is one of: slack | http.
	Type string
	URL  string
}

// Webhook delivers alerts asynchronously to all configured targets.
// Delivery failures are logged and swallowed; they never reach the
// evaluation pass.
type Webhook struct {
	targets []Target
	client  *http.Client
}

// NewWebhook creates a Webhook notifier. An empty target list is valid;
// AlertFired becomes a no-op.
func NewWebhook(targets []Target) *Webhook {
	return &Webhook{
		targets: targets,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// AlertFired dispatches a in the background and returns immediately.
func (w *Webhook) AlertFired(a store.Alert) {
	if len(w.targets) == 0 {
		return
	}
	go w.deliver(a)
}

func (w *Webhook) deliver(a store.Alert) {
	for _, target := range w.targets {
		if target.URL == "" {
			continue
		}

		var err error
		switch target.Type {
		case "slack":
			err = w.sendSlack(target.URL, a)
		case "http":
			err = w.sendHTTP(target.URL, a)
		default:
			slog.Warn("notify: unknown webhook type, skipping", "type", target.Type)
			continue
		}

		if err != nil {
			slog.Error("notify: webhook delivery failed",
				"type", target.Type,
				"alert", a.ID,
				"err", err,
			)
		} else {
			slog.Debug("notify: webhook delivered", "type", target.Type, "alert", a.ID)
		}
	}
}

func (w *Webhook) sendSlack(url string, a store.Alert) error {
	body, _ := json.Marshal(map[string]string{
		"text": fmt.Sprintf("*[%s]* %s", a.Severity, a.Message),
	})
	return w.post(url, body)
}

func (w *Webhook) sendHTTP(url string, a store.Alert) error {
	body, _ := json.Marshal(map[string]any{"alert": a})
	return w.post(url, body)
}

func (w *Webhook) post(url string, body []byte) error {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}
