package reclaim

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	filesReclaimed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reclaim_files_deleted_total",
		Help: "Unattached uploads removed by the sweep",
	})

	deleteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reclaim_delete_failures_total",
			Help: "Sweep failures by stage",
		},
		[]string{"stage"},
	)

	passesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reclaim_passes_skipped_total",
			Help: "Sweep passes not run, by reason",
		},
		[]string{"reason"},
	)

	passDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reclaim_pass_duration_seconds",
		Help:    "Duration of a sweep pass",
		Buckets: []float64{.01, .05, .1, .5, 1, 5, 15, 60, 300, 900},
	})

	lastPassTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "reclaim_last_pass_timestamp_seconds",
		Help: "Unix time the last sweep pass finished",
	})
)
