// Package observability exposes service-level Prometheus instruments shared
// across binaries.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	taskPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "lifeboard",
		Subsystem: "persistence",
		Name:      "last_task_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent task written to Postgres.",
	})
	taskCompletedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "lifeboard",
		Subsystem: "persistence",
		Name:      "last_task_completed_timestamp_seconds",
		Help:      "Unix timestamp of the most recent task transitioned to done.",
	})
	habitLogGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "lifeboard",
		Subsystem: "persistence",
		Name:      "last_habit_log_timestamp_seconds",
		Help:      "Unix timestamp of the most recent habit log persisted.",
	})
)

func init() {
	prometheus.MustRegister(taskPersistGauge, taskCompletedGauge, habitLogGauge)
}

// RecordTaskPersisted updates the task write watermark.
func RecordTaskPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	taskPersistGauge.Set(float64(ts.Unix()))
}

// RecordTaskCompleted updates the completion watermark.
func RecordTaskCompleted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	taskCompletedGauge.Set(float64(ts.Unix()))
}

// RecordHabitLogged updates the habit log watermark.
func RecordHabitLogged(ts time.Time) {
	if ts.IsZero() {
		return
	}
	habitLogGauge.Set(float64(ts.Unix()))
}
