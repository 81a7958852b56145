package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "transcriber"

// Metrics are the pipeline's prometheus instruments.
type Metrics struct {
	submitted       prometheus.Counter
	jobs            *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
	stageAttempts   *prometheus.CounterVec
	inflight        prometheus.Gauge
	cleanupFailures prometheus.Counter
	audioDuration   prometheus.Histogram
}

// NewMetrics creates the instruments and registers them with reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "jobs_submitted_total",
			Help:      "Uploads accepted and staged.",
		}),
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "jobs_finished_total",
			Help:      "Jobs that reached a terminal state, by outcome.",
		}, []string{"outcome"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time of one external tool invocation.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 900},
		}, []string{"stage"}),
		stageAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "stage_attempts_total",
			Help:      "External tool invocations, by stage and result.",
		}, []string{"stage", "result"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "jobs_in_flight",
			Help:      "Jobs currently holding a concurrency slot.",
		}),
		cleanupFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cleanup_failures_total",
			Help:      "Intermediate artifacts that could not be removed.",
		}),
		audioDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "audio_duration_seconds",
			Help:      "Length of converted waveforms.",
			Buckets:   []float64{5, 30, 60, 300, 600, 1800, 3600, 7200},
		}),
	}

	if reg != nil {
		reg.MustRegister(m.submitted, m.jobs, m.stageDuration, m.stageAttempts, m.inflight, m.cleanupFailures, m.audioDuration)
	}
	return m
}

func (m *Metrics) observeStage(stage string, d time.Duration, err error) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.stageAttempts.WithLabelValues(stage, result).Inc()
}

func (m *Metrics) observeAudio(seconds int) {
	m.audioDuration.Observe(float64(seconds))
}
