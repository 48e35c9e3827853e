package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/watchkeep/watchkeep/internal/store"
)

func newTestStore() *store.Store {
	return store.New(store.Capacities{Logs: 10, Metrics: 10, Alerts: 10, Audits: 10})
}

func TestHubSendsSnapshotOnConnect(t *testing.T) {
	st := newTestStore()
	st.AppendAlert(store.Alert{ID: "a1", Status: store.AlertActive, Severity: store.SeverityHigh})

	hub := New(st, time.Hour) // no broadcasts during the test
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Event != "alerts" {
		t.Errorf("event: got %q, want alerts", msg.Event)
	}
	if len(msg.Data.Alerts) != 1 || msg.Data.Alerts[0].ID != "a1" {
		t.Errorf("alerts: got %+v", msg.Data.Alerts)
	}
}

func TestHubBroadcastsOnTick(t *testing.T) {
	st := newTestStore()
	hub := New(st, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Drain the on-connect snapshot.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}

	st.AppendAlert(store.Alert{ID: "fresh", Status: store.AlertActive})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(deadline)
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read broadcast: %v", err)
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(msg.Data.Alerts) == 1 && msg.Data.Alerts[0].ID == "fresh" {
			return
		}
	}
	t.Fatal("broadcast with the new alert never arrived")
}

func TestHubCountTracksClients(t *testing.T) {
	st := newTestStore()
	hub := New(st, time.Hour)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	if hub.Count() != 0 {
		t.Fatalf("Count: got %d, want 0", hub.Count())
	}

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	waitFor(t, func() bool { return hub.Count() == 1 })
	conn.Close()
	waitFor(t, func() bool { return hub.Count() == 0 })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}
