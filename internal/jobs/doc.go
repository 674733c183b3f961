// Package jobs implements background work for the activities API.
//
// The jobs package contains scheduled tasks that run independently of
// HTTP request handling.
//
// # Capacity Watcher
//
// CapacityWatcher periodically snapshots the activity catalog, publishes
// per-activity roster gauges, and logs a warning for every roster at or
// over its advertised capacity. Capacity is advisory in this API, so the
// watcher is the surface that makes full rosters visible to operators:
//
//	watcher := jobs.NewCapacityWatcher(activityService, time.Minute)
//	watcher.Start()
//	defer watcher.Stop()
//
// # Error Handling
//
// A failed snapshot is logged and retried on the next tick. Jobs never
// crash the application.
package jobs
