package render

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rubiojr/pagebuilder/pkg/core"
)

// Metrics tracks block outcomes, page render time and gateway query time.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	BlocksTotal          *prometheus.CounterVec
	PageRenderDuration   prometheus.Histogram
	GatewayQueryDuration *prometheus.HistogramVec
}

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// NewMetrics registers the render metrics with reg. Pass
// prometheus.DefaultRegisterer to expose them on /metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BlocksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pagebuilder_blocks_total",
			Help: "Blocks processed by the composer, by type and final state",
		}, []string{"type", "state"}),
		PageRenderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pagebuilder_page_render_duration_seconds",
			Help:    "Duration of full page compositions",
			Buckets: durationBuckets,
		}),
		GatewayQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pagebuilder_gateway_query_duration_seconds",
			Help:    "Duration of tenant data gateway queries by family",
			Buckets: durationBuckets,
		}, []string{"family", "result"}),
	}
}

// IncrementBlock records the terminal state of one block. Unknown types are
// counted under "unknown" to keep label cardinality bounded.
func (m *Metrics) IncrementBlock(blockType string, state core.State, known bool) {
	if m == nil || !state.Terminal() {
		return
	}
	if !known {
		blockType = "unknown"
	}
	m.BlocksTotal.WithLabelValues(blockType, state.String()).Inc()
}

// ObservePage records the duration of one composition.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObservePage(start time.Time) {
	if m == nil {
		return
	}
	m.PageRenderDuration.Observe(time.Since(start).Seconds())
}

// ObserveQuery records the duration of one gateway query.
func (m *Metrics) ObserveQuery(family string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.GatewayQueryDuration.WithLabelValues(family, result).Observe(time.Since(start).Seconds())
}
