package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "ifexplore"

// runMetrics is the Prometheus face of a collector. All metric operations
// are thread-safe through the client library's own locking.
type runMetrics struct {
	nodes     prometheus.Counter
	prunes    prometheus.Counter
	commands  *prometheus.CounterVec
	rewinds   prometheus.Counter
	restores  prometheus.Counter
	solutions prometheus.Counter
	strands   prometheus.Counter
	problems  *prometheus.CounterVec
	entries   prometheus.Gauge
	depth     prometheus.Gauge
	running   prometheus.Gauge
	elapsed   prometheus.GaugeFunc
}

func newRunMetrics(reg prometheus.Registerer, elapsed func() float64) *runMetrics {
	factory := promauto.With(reg)
	return &runMetrics{
		nodes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "nodes_total",
			Help:      "Search nodes entered, pruned ones included.",
		}),
		prunes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "nodes_pruned_total",
			Help:      "Nodes skipped because an earlier run exhausted them.",
		}),
		commands: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "commands_total",
			Help:      "Commands tried, labelled by outcome.",
		}, []string{"outcome"}),
		rewinds: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rewinds_total",
			Help:      "Tried commands unwound back to their parent node.",
		}),
		restores: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "restores_total",
			Help:      "Rewinds that restored a checkpoint because undo was refused.",
		}),
		solutions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "solutions_total",
			Help:      "Winning paths discovered.",
		}),
		strands: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "strands_recorded_total",
			Help:      "Strands recorded as fully explored.",
		}),
		problems: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "problems_total",
			Help:      "Problem reports filed, labelled by kind.",
		}, []string{"kind"}),
		entries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "store_entries",
			Help:      "Entries in the progress table after the last save.",
		}),
		depth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "search_depth",
			Help:      "Depth of the node currently being explored.",
		}),
		running: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "running",
			Help:      "1 while an exploration run is in flight.",
		}),
		elapsed: factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "run_elapsed_seconds",
			Help:      "Wall-clock seconds since the run started.",
		}, elapsed),
	}
}
