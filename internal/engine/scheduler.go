package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/watchkeep/watchkeep/internal/metrics"
	"github.com/watchkeep/watchkeep/internal/store"
)

// PassRunner is the unit of work the scheduler drives once per tick.
type PassRunner interface {
	RunPass() []store.Alert
}

// Scheduler runs a PassRunner on a fixed interval.
//
// At most one tick driver exists at any time: Start on a running scheduler
// replaces the previous timer. At most one pass is in flight at any time:
// a tick arriving while a pass still runs is skipped, never queued or run
// concurrently. A failing pass is logged and the loop continues.
type Scheduler struct {
	runner PassRunner

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	inFlight atomic.Bool
}

// NewScheduler creates a stopped Scheduler for runner.
func NewScheduler(runner PassRunner) *Scheduler {
	return &Scheduler{runner: runner}
}

// Start begins ticking every interval, replacing any previous timer.
// A non-positive interval is rejected.
func (s *Scheduler) Start(interval time.Duration) {
	if interval <= 0 {
		slog.Warn("scheduler: ignoring non-positive interval", "interval", interval)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go s.loop(ctx, interval, done)
	slog.Info("scheduler: started", "interval", interval)
}

// Stop cancels future ticks. A pass already in flight is allowed to finish;
// Stop returns once the tick loop has exited. Stopping a stopped scheduler
// is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Running reports whether a tick driver is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Scheduler) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
}

func (s *Scheduler) loop(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.tick()
		}
	}
}

// tick runs one pass, skipping entirely if a previous pass is still in
// flight, and containing any panic to this tick.
func (s *Scheduler) tick() {
	if !s.inFlight.CompareAndSwap(false, true) {
		metrics.IncTickSkipped()
		slog.Warn("scheduler: previous pass still running, skipping tick")
		return
	}
	defer s.inFlight.Store(false)
	defer func() {
		if r := recover(); r != nil {
			slog.Error("scheduler: evaluation pass failed", "panic", r)
		}
	}()

	s.runner.RunPass()
}
