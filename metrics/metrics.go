// Package metrics exposes the simulation's per-tick QoS terms and task
// counters as Prometheus gauges, replacing the node's original hand-rolled
// Metrics struct (tasks_processed / avg_latency / current_load) with the
// ecosystem's instrumentation library.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"fogsim/qos"
)

// Collector holds the gauges updated once per simulation tick.
type Collector struct {
	qosScore     prometheus.Gauge
	inProgress   prometheus.Gauge
	nodeUsageVar prometheus.Gauge
	linkLoadVar  prometheus.Gauge
	taskDistance prometheus.Gauge

	allocated prometheus.Gauge
	pending   prometheus.Gauge
	completed prometheus.Gauge
	failed    prometheus.Gauge
	total     prometheus.Gauge

	tick prometheus.Counter
}

// NewCollector registers a fresh set of gauges against reg. Pass
// prometheus.DefaultRegisterer to expose them on the process-wide registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		qosScore:     prometheus.NewGauge(prometheus.GaugeOpts{Name: "fogsim_qos_score", Help: "Current QoS scalar."}),
		inProgress:   prometheus.NewGauge(prometheus.GaugeOpts{Name: "fogsim_tasks_in_progress", Help: "Tasks currently IN_PROGRESS."}),
		nodeUsageVar: prometheus.NewGauge(prometheus.GaugeOpts{Name: "fogsim_node_usage_variance", Help: "Population variance of fog node usage."}),
		linkLoadVar:  prometheus.NewGauge(prometheus.GaugeOpts{Name: "fogsim_link_load_variance", Help: "Population variance of fog link load."}),
		taskDistance: prometheus.NewGauge(prometheus.GaugeOpts{Name: "fogsim_task_distance_cost", Help: "Sum of sqrt(distance)*cost over hosted tasks."}),
		allocated:    prometheus.NewGauge(prometheus.GaugeOpts{Name: "fogsim_tasks_allocated", Help: "Tasks IN_PROGRESS (ledger snapshot)."}),
		pending:      prometheus.NewGauge(prometheus.GaugeOpts{Name: "fogsim_tasks_pending", Help: "Tasks PENDING."}),
		completed:    prometheus.NewGauge(prometheus.GaugeOpts{Name: "fogsim_tasks_completed", Help: "Tasks COMPLETED."}),
		failed:       prometheus.NewGauge(prometheus.GaugeOpts{Name: "fogsim_tasks_failed", Help: "Tasks FAILED."}),
		total:        prometheus.NewGauge(prometheus.GaugeOpts{Name: "fogsim_tasks_total", Help: "Total tasks ever tracked."}),
		tick:         prometheus.NewCounter(prometheus.CounterOpts{Name: "fogsim_ticks_total", Help: "Simulation ticks executed."}),
	}
	reg.MustRegister(c.qosScore, c.inProgress, c.nodeUsageVar, c.linkLoadVar, c.taskDistance,
		c.allocated, c.pending, c.completed, c.failed, c.total, c.tick)
	return c
}

// Observe records one tick's QoS score, terms and counters.
func (c *Collector) Observe(score float64, terms qos.Terms, counters qos.Counters) {
	c.qosScore.Set(score)
	c.inProgress.Set(float64(terms.InProgress))
	c.nodeUsageVar.Set(terms.NodeUsageVar)
	c.linkLoadVar.Set(terms.LinkLoadVar)
	c.taskDistance.Set(terms.TaskDistanceCost)

	c.allocated.Set(float64(counters.Allocated))
	c.pending.Set(float64(counters.Pending))
	c.completed.Set(float64(counters.Completed))
	c.failed.Set(float64(counters.Failed))
	c.total.Set(float64(counters.Total))

	c.tick.Inc()
}
