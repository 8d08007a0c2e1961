package stealpool

import "github.com/ygrebnov/stealpool/metrics"

// Instrument names registered on the configured metrics.Provider.
const (
	MetricTasksSubmitted = "tasks_submitted_total"
	MetricTasksCompleted = "tasks_completed_total"
	MetricTasksFailed    = "tasks_failed_total"
	MetricTasksRejected  = "tasks_rejected_total"
	MetricTasksStolen    = "tasks_stolen_total"
	MetricTasksPending   = "tasks_pending"
	MetricWorkersIdle    = "workers_idle"
	MetricTaskDuration   = "task_duration_seconds"
)

type instruments struct {
	submitted metrics.Counter
	completed metrics.Counter
	failed    metrics.Counter
	rejected  metrics.Counter
	stolen    metrics.Counter
	pending   metrics.UpDownCounter
	idle      metrics.UpDownCounter
	duration  metrics.Histogram
}

func newInstruments(p metrics.Provider) instruments {
	return instruments{
		submitted: p.Counter(MetricTasksSubmitted,
			metrics.WithDescription("Total number of tasks accepted by the pool"), metrics.WithUnit("1")),
		completed: p.Counter(MetricTasksCompleted,
			metrics.WithDescription("Total number of tasks that finished without error"), metrics.WithUnit("1")),
		failed: p.Counter(MetricTasksFailed,
			metrics.WithDescription("Total number of tasks that failed, panicked or were dropped"), metrics.WithUnit("1")),
		rejected: p.Counter(MetricTasksRejected,
			metrics.WithDescription("Total number of submissions rejected after shutdown began"), metrics.WithUnit("1")),
		stolen: p.Counter(MetricTasksStolen,
			metrics.WithDescription("Total number of tasks taken from a peer's local queue"), metrics.WithUnit("1")),
		pending: p.UpDownCounter(MetricTasksPending,
			metrics.WithDescription("Tasks submitted but not yet finished"), metrics.WithUnit("1")),
		idle: p.UpDownCounter(MetricWorkersIdle,
			metrics.WithDescription("Workers currently idling"), metrics.WithUnit("1")),
		duration: p.Histogram(MetricTaskDuration,
			metrics.WithDescription("Task execution time"), metrics.WithUnit("seconds")),
	}
}
