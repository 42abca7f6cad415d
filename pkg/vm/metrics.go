// metrics.go mirrors the teacher's pkg/metrics.go: a metricsSink interface
// hidden behind a no-op/Prometheus pair, so the hot path never pays for a
// metrics update unless the caller opted in via WithMetrics.
//
// © 2025 glimmer authors. MIT License.
package vm

import "github.com/prometheus/client_golang/prometheus"

// metricsSink abstracts the concrete backend away from VM.
type metricsSink interface {
	incAlloc(kind string)
	incCollect()
	incParseFailure()
	setHeapObjects(n int)
}

type noopMetrics struct{}

func (noopMetrics) incAlloc(string)     {}
func (noopMetrics) incCollect()         {}
func (noopMetrics) incParseFailure()    {}
func (noopMetrics) setHeapObjects(int)  {}

type promMetrics struct {
	allocs        *prometheus.CounterVec
	collections   prometheus.Counter
	parseFailures prometheus.Counter
	heapObjects   prometheus.Gauge
}

func newPromMetrics(reg *prometheus.Registry) *promMetrics {
	pm := &promMetrics{
		allocs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "corevm",
			Name:      "allocations_total",
			Help:      "Number of heap objects allocated, by kind.",
		}, []string{"kind"}),
		collections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "corevm",
			Name:      "collections_total",
			Help:      "Number of completed garbage collections.",
		}),
		parseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "corevm",
			Name:      "argparse_failures_total",
			Help:      "Number of native argument-parser failures.",
		}),
		heapObjects: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "corevm",
			Name:      "heap_objects",
			Help:      "Number of heap objects tracked as of the last collection.",
		}),
	}
	reg.MustRegister(pm.allocs, pm.collections, pm.parseFailures, pm.heapObjects)
	return pm
}

func (m *promMetrics) incAlloc(kind string)    { m.allocs.WithLabelValues(kind).Inc() }
func (m *promMetrics) incCollect()             { m.collections.Inc() }
func (m *promMetrics) incParseFailure()        { m.parseFailures.Inc() }
func (m *promMetrics) setHeapObjects(n int)    { m.heapObjects.Set(float64(n)) }

func newMetricsSink(reg *prometheus.Registry) metricsSink {
	if reg == nil {
		return noopMetrics{}
	}
	return newPromMetrics(reg)
}
