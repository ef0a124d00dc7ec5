package filemanager

import "github.com/rcrowley/go-metrics"

// Metric names registered by the Manager.
const (
	MetricSaved          = "filemanager.saved"
	MetricDeleted        = "filemanager.deleted"
	MetricOrphans        = "filemanager.orphans"
	MetricHashFailures   = "filemanager.hash_failures"
	MetricDeleteFailures = "filemanager.delete_failures"
	MetricSaveTimer      = "filemanager.save"
	MetricDeleteTimer    = "filemanager.delete"
)

type managerMetrics struct {
	registry metrics.Registry

	saved          metrics.Counter
	deleted        metrics.Counter
	orphans        metrics.Counter
	hashFailures   metrics.Counter
	deleteFailures metrics.Counter
	saveTimer      metrics.Timer
	deleteTimer    metrics.Timer
}

func newManagerMetrics(r metrics.Registry) *managerMetrics {
	return &managerMetrics{
		registry:       r,
		saved:          metrics.GetOrRegisterCounter(MetricSaved, r),
		deleted:        metrics.GetOrRegisterCounter(MetricDeleted, r),
		orphans:        metrics.GetOrRegisterCounter(MetricOrphans, r),
		hashFailures:   metrics.GetOrRegisterCounter(MetricHashFailures, r),
		deleteFailures: metrics.GetOrRegisterCounter(MetricDeleteFailures, r),
		saveTimer:      metrics.GetOrRegisterTimer(MetricSaveTimer, r),
		deleteTimer:    metrics.GetOrRegisterTimer(MetricDeleteTimer, r),
	}
}
