package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mergington/activities/internal/metrics"
	"github.com/mergington/activities/internal/service"
)

// CapacityWatcher periodically snapshots rosters into the Prometheus
// gauges and flags activities that have reached their advertised capacity.
type CapacityWatcher struct {
	activityService *service.ActivityService
	interval        time.Duration
	stopCh          chan struct{}
	wg              sync.WaitGroup
	running         bool
	mu              sync.Mutex
}

// NewCapacityWatcher builds a watcher that snapshots every interval.
// A non-positive interval falls back to one minute.
func NewCapacityWatcher(activityService *service.ActivityService, interval time.Duration) *CapacityWatcher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CapacityWatcher{
		activityService: activityService,
		interval:        interval,
		stopCh:          make(chan struct{}),
	}
}

// Start launches the watcher goroutine. Start on a running watcher is
// a no-op.
func (w *CapacityWatcher) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run()
	slog.Info("capacity watcher started", "interval", w.interval)
}

// Stop halts the goroutine and waits for it to exit.
func (w *CapacityWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	w.wg.Wait()
	slog.Info("capacity watcher stopped")
}

func (w *CapacityWatcher) run() {
	defer w.wg.Done()

	// Snapshot right away so the gauges exist before the first tick.
	w.refresh()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.refresh()
		case <-w.stopCh:
			return
		}
	}
}

// refresh takes one roster snapshot with a bounded deadline
func (w *CapacityWatcher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := w.RunOnce(ctx); err != nil {
		slog.Error("capacity watcher refresh failed", "error", err)
	}
}

// RunOnce publishes one snapshot of every roster gauge and warns about
// full rosters. The loop and the tests share it.
func (w *CapacityWatcher) RunOnce(ctx context.Context) error {
	activities, err := w.activityService.List(ctx)
	if err != nil {
		return err
	}

	for name, activity := range activities {
		metrics.RosterSize.WithLabelValues(name).Set(float64(len(activity.Participants)))
		metrics.RosterCapacity.WithLabelValues(name).Set(float64(activity.MaxParticipants))

		if activity.IsFull() {
			slog.Warn("roster at or over capacity",
				"activity", name,
				"participants", len(activity.Participants),
				"max_participants", activity.MaxParticipants)
		}
	}

	return nil
}

// IsRunning reports whether the watcher goroutine is live.
func (w *CapacityWatcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
