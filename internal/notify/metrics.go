package notify

import "github.com/prometheus/client_golang/prometheus"

var (
	scanCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lifeboard",
		Subsystem: "notify",
		Name:      "scans_total",
		Help:      "Number of completed notification scan passes.",
	})

	createdCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lifeboard",
		Subsystem: "notify",
		Name:      "notifications_created_total",
		Help:      "Number of notifications persisted by the scanner.",
	})
)

func init() {
	prometheus.MustRegister(scanCounter, createdCounter)
}
