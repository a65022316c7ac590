// Package metrics exposes Prometheus instrumentation for the dispatch
// engine. Collectors are registered on the default registry via promauto
// and served by the API's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsTotal counts raw inputs accepted by Submit.
	SubmissionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hq_submissions_total",
			Help: "Total number of command lines submitted to the dispatch queue.",
		},
	)

	// DispatchesTotal counts completed dispatches by outcome.
	DispatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hq_dispatches_total",
			Help: "Total number of completed dispatches by outcome.",
		},
		[]string{"outcome"},
	)

	// PipelineStagesTotal counts stages routed into pipeline execution.
	PipelineStagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hq_pipeline_stages_total",
			Help: "Total number of pipeline stages dispatched.",
		},
	)

	// QueueDepth tracks commands waiting for the dispatch worker.
	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hq_queue_depth",
			Help: "Number of submitted commands not yet dequeued.",
		},
	)
)
