package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/admitware/scholarship-advisor/internal/rules"
)

// Collector tracks evaluation outcomes on its own registry. It satisfies
// rules.EvalObserver so it can be wired straight into the matcher.
type Collector struct {
	registry     *prometheus.Registry
	evaluations  *prometheus.CounterVec
	duration     prometheus.Histogram
	matchedRules prometheus.Histogram
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		evaluations: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "scholarship_evaluations_total",
			Help: "Total number of rule evaluations by selected decision",
		}, []string{"decision"}),
		duration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "scholarship_evaluation_duration_seconds",
			Help:    "Time taken to evaluate the rule set against an applicant",
			Buckets: prometheus.ExponentialBuckets(0.000001, 4, 10),
		}),
		matchedRules: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "scholarship_matched_rules",
			Help:    "Distribution of matched rule counts per evaluation",
			Buckets: []float64{0, 1, 2, 3, 5, 10},
		}),
	}
}

func (c *Collector) ObserveEvaluation(decision rules.Decision, matched int, duration time.Duration) {
	c.evaluations.WithLabelValues(string(decision)).Inc()
	c.duration.Observe(duration.Seconds())
	c.matchedRules.Observe(float64(matched))
}

// Handler serves the collector's registry in the prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
