package observability

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once
	registry     = prometheus.NewRegistry()

	replicatesLoaded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "captainctl",
			Subsystem: "replicates",
			Name:      "loaded_total",
			Help:      "Replicate archives whose array was extracted.",
		},
		[]string{"job", "source"},
	)
	replicatesSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "captainctl",
			Subsystem: "replicates",
			Name:      "skipped_total",
			Help:      "Replicate archives dropped from an average.",
		},
		[]string{"job", "source", "reason"},
	)
	aggregatedValues = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "captainctl",
			Subsystem: "aggregate",
			Name:      "values",
			Help:      "Number of averaged values per output column.",
		},
		[]string{"job", "column"},
	)
	positiveRatio = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "captainctl",
			Subsystem: "aggregate",
			Name:      "positive_ratio",
			Help:      "Share of strictly positive averaged values per output column.",
		},
		[]string{"job", "column"},
	)
	jobDuration = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "captainctl",
			Subsystem: "job",
			Name:      "duration_seconds",
			Help:      "Wall time of the last job run.",
		},
		[]string{"job"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		registry.MustRegister(replicatesLoaded, replicatesSkipped, aggregatedValues, positiveRatio, jobDuration)
	})
}

func RecordLoaded(job, source string, n int) {
	RegisterMetrics()
	replicatesLoaded.WithLabelValues(job, source).Add(float64(n))
}

func RecordSkipped(job, source, reason string) {
	RegisterMetrics()
	replicatesSkipped.WithLabelValues(job, source, reason).Inc()
}

func RecordColumn(job, column string, values int, positive float64) {
	RegisterMetrics()
	aggregatedValues.WithLabelValues(job, column).Set(float64(values))
	positiveRatio.WithLabelValues(job, column).Set(positive)
}

func RecordDuration(job string, d time.Duration) {
	RegisterMetrics()
	jobDuration.WithLabelValues(job).Set(d.Seconds())
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
func WriteTextfile(path string) error {
	RegisterMetrics()
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("write metrics textfile (%s): %w", path, err)
	}
	return nil
}
