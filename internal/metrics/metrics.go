// Package metrics exposes Prometheus counters for analyses, HTTP traffic and
// queue messages. Each Metrics owns its registry.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonathan/resume-screener/internal/scoring"
)

// Outcome labels.
const (
	OutcomeOK              = "ok"
	OutcomeVocabularyError = "vocabulary_error"
	OutcomeError           = "error"
)

// Metrics holds the process's collectors.
type Metrics struct {
	registry *prometheus.Registry

	analyses    *prometheus.CounterVec
	scores      *prometheus.HistogramVec
	requests    *prometheus.CounterVec
	durations   *prometheus.SummaryVec
	queueEvents *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		analyses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analyses_total",
				Help: "Total number of resume analyses by strategy and outcome",
			},
			[]string{"strategy", "outcome"},
		),
		scores: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "analysis_score",
				Help:    "Distribution of match scores",
				Buckets: prometheus.LinearBuckets(10, 10, 10),
			},
			[]string{"strategy"},
		),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		durations: factory.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request duration in seconds",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.95: 0.005,
					0.99: 0.001,
				},
			},
			[]string{"method", "path", "status_code"},
		),
		queueEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queue_messages_total",
				Help: "Total number of analysis queue messages by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveAnalysis records one scoring attempt.
func (m *Metrics) ObserveAnalysis(strategy string, score float64, err error) {
	outcome := Outcome(err)
	m.analyses.WithLabelValues(strategy, outcome).Inc()
	if outcome == OutcomeOK {
		m.scores.WithLabelValues(strategy).Observe(score)
	}
}

// ObserveQueueMessage records the handling of one queue message.
func (m *Metrics) ObserveQueueMessage(outcome string) {
	m.queueEvents.WithLabelValues(outcome).Inc()
}

// Outcome classifies a scoring error into a label value.
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	var vocabErr *scoring.VocabularyError
	if errors.As(err, &vocabErr) {
		return OutcomeVocabularyError
	}
	return OutcomeError
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records count and latency per route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		// ServeMux fills in Pattern on the way through; unmatched paths share
		// one label to keep cardinality bounded.
		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(rec.status)

		m.durations.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(r.Method, path, status).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
