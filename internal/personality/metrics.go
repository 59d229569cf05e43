package personality

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Transform paths recorded in personad_transforms_total.
const (
	pathGenerative    = "generative"
	pathDeterministic = "deterministic"
	pathFallback      = "fallback"
)

// styleUnknown labels transforms whose requested style is not in the catalog.
const styleUnknown = "unknown"

// styleLabel bounds the style label to the catalog. Requested styles are
// caller supplied and stay verbatim only in TransformResult.
func styleLabel(style string) string {
	if IsKnown(style) {
		return style
	}
	return styleUnknown
}

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for the personality engine.
type Metrics struct {
	TransformsTotal   *prometheus.CounterVec
	GeneratorDuration *prometheus.HistogramVec
	SecretsScrubbed   prometheus.Counter
}

// NewMetrics creates and registers the engine metrics.
//
// Registration happens once per process, so every Engine shares the same
// collectors.
//
// Metrics:
//   - personad_transforms_total{style,path} - transforms by catalog style (or "unknown") and path
//   - personad_generator_duration_seconds{backend} - generative call latency
//   - personad_secrets_scrubbed_total - secrets removed from outgoing prompts
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			TransformsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "personad_transforms_total",
					Help: "Total number of personality transforms",
				},
				[]string{"style", "path"}, // path: "generative", "deterministic" or "fallback"
			),
			GeneratorDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "personad_generator_duration_seconds",
					Help:    "Duration of generative backend calls in seconds",
					Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
				},
				[]string{"backend"},
			),
			SecretsScrubbed: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "personad_secrets_scrubbed_total",
					Help: "Total number of secrets removed from generative prompts",
				},
			),
		}
	})
	return globalMetrics
}
