package notify

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/watchkeep/watchkeep/internal/store"
)

func TestWebhookDeliversHTTP(t *testing.T) {
	received := make(chan []byte, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- body
	}))
	defer srv.Close()

	wh := NewWebhook([]Target{{Type: "http", URL: srv.URL}})
	wh.AlertFired(store.Alert{ID: "r1:1", Status: store.AlertActive, Message: "Rule matched: x", Severity: store.SeverityHigh})

	select {
	case body := <-received:
		var payload struct {
			Alert store.Alert `json:"alert"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("unmarshal delivered body: %v", err)
		}
		if payload.Alert.ID != "r1:1" {
			t.Errorf("delivered alert id: got %q, want r1:1", payload.Alert.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was not delivered")
	}
}

func TestWebhookSlackPayload(t *testing.T) {
	received := make(chan []byte, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- body
	}))
	defer srv.Close()

	wh := NewWebhook([]Target{{Type: "slack", URL: srv.URL}})
	wh.AlertFired(store.Alert{ID: "r1:1", Message: "Rule matched: x", Severity: store.SeverityCritical})

	select {
	case body := <-received:
		var payload map[string]string
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if payload["text"] != "*[CRITICAL]* Rule matched: x" {
			t.Errorf("slack text: got %q", payload["text"])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was not delivered")
	}
}

func TestWebhookNoTargetsIsNoOp(t *testing.T) {
	wh := NewWebhook(nil)
	// Must not panic or block.
	wh.AlertFired(store.Alert{ID: "a"})
}
