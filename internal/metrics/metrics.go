// Package metrics holds the Prometheus collectors of the title pipeline.
// All methods are safe on a nil *Metrics, which records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cartitle"

type Metrics struct {
	cacheLookups  *prometheus.CounterVec
	cacheWrites   *prometheus.CounterVec
	providerCalls *prometheus.CounterVec
	titles        *prometheus.CounterVec
	duration      prometheus.Histogram
}

// New registers the collectors with reg. A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Translation cache lookups by result (hit, miss, error).",
		}, []string{"result"}),
		cacheWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_writes_total",
			Help:      "Translation cache writes by result (ok, error).",
		}, []string{"result"}),
		providerCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "Translation provider calls by outcome.",
		}, []string{"outcome"}),
		titles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "titles_total",
			Help:      "Normalized titles by pipeline path.",
		}, []string{"path"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "title_duration_seconds",
			Help:      "Time to normalize one title.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) CacheWrite(result string) {
	if m == nil {
		return
	}
	m.cacheWrites.WithLabelValues(result).Inc()
}

func (m *Metrics) ProviderCall(outcome string) {
	if m == nil {
		return
	}
	m.providerCalls.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Title(path string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.titles.WithLabelValues(path).Inc()
	m.duration.Observe(elapsed.Seconds())
}
