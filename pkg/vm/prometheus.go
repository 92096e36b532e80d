package vm

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics for monitoring service.
var (
	// executions prometheus metric.
	executions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of finished executions by the resulting VM state",
			Name:      "executions_total",
			Subsystem: "vm",
			Namespace: "neo2vm",
		},
		[]string{"state"},
	)
	// gasConsumed prometheus metric.
	gasConsumed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "GAS consumed by executions in datoshi",
			Name:      "gas_consumed_total",
			Subsystem: "vm",
			Namespace: "neo2vm",
		},
	)
	// opcodesExecuted prometheus metric.
	opcodesExecuted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of executed instructions",
			Name:      "opcodes_executed_total",
			Subsystem: "vm",
			Namespace: "neo2vm",
		},
	)
)

func init() {
	prometheus.MustRegister(
		executions,
		gasConsumed,
		opcodesExecuted,
	)
}

func updateExecutionMetrics(state State, gas int64, steps int) {
	executions.WithLabelValues(state.String()).Inc()
	gasConsumed.Add(float64(gas))
	opcodesExecuted.Add(float64(steps))
}
