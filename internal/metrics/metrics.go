package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name
const DefaultNamespace = "wellness"

// Submission outcomes
const (
	OutcomeAccepted   = "accepted"
	OutcomeIncomplete = "incomplete"
	OutcomeFailed     = "failed"
)

// Recorder exports HTTP, prediction, submission and progress metrics
type Recorder struct {
	requestDuration    *prometheus.HistogramVec
	predictionDuration *prometheus.HistogramVec
	predictionErrors   *prometheus.CounterVec
	cacheLookups       *prometheus.CounterVec
	submissions        *prometheus.CounterVec
	completions        prometheus.Counter
	levelsGained       prometheus.Counter
	streakResets       prometheus.Counter
}

// New registers the recorder's collectors with reg. A nil reg uses the
// default registerer.
func New(namespace string, reg prometheus.Registerer) (*Recorder, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &Recorder{
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of served HTTP requests by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		predictionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_duration_seconds",
			Help:      "Latency of calls to the prediction service.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"model"}),
		predictionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prediction_errors_total",
			Help:      "Failed calls to the prediction service.",
		}, []string{"model"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prediction_cache_lookups_total",
			Help:      "Prediction cache lookups by result.",
		}, []string{"model", "result"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessment_submissions_total",
			Help:      "Questionnaire submissions by outcome.",
		}, []string{"outcome"}),
		completions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activities_completed_total",
			Help:      "Activities marked complete.",
		}),
		levelsGained: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "levels_gained_total",
			Help:      "Levels gained across all users.",
		}),
		streakResets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streak_resets_total",
			Help:      "Day streaks reset by the daily job.",
		}),
	}

	collectors := []prometheus.Collector{
		r.requestDuration, r.predictionDuration, r.predictionErrors, r.cacheLookups,
		r.submissions, r.completions, r.levelsGained, r.streakResets,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}
	return r, nil
}

// ObserveRequest records one served HTTP request
func (r *Recorder) ObserveRequest(method, route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// ObservePrediction records one call to the prediction service
func (r *Recorder) ObservePrediction(model string, d time.Duration, err error) {
	if r == nil {
		return
	}
	r.predictionDuration.WithLabelValues(model).Observe(d.Seconds())
	if err != nil {
		r.predictionErrors.WithLabelValues(model).Inc()
	}
}

// CacheLookup records a prediction cache hit or miss
func (r *Recorder) CacheLookup(model string, hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(model, result).Inc()
}

// Submission records an assessment submission outcome
func (r *Recorder) Submission(outcome string) {
	if r == nil {
		return
	}
	r.submissions.WithLabelValues(outcome).Inc()
}

// ActivityCompleted records a completed activity and any levels it earned
func (r *Recorder) ActivityCompleted(levels int) {
	if r == nil {
		return
	}
	r.completions.Inc()
	if levels > 0 {
		r.levelsGained.Add(float64(levels))
	}
}

// StreaksReset records users whose streak was cleared by the daily job
func (r *Recorder) StreaksReset(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.streakResets.Add(float64(n))
}

// Handler serves the metrics gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
