package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Source metrics
	SourceFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentimental_source_fetches_total",
			Help: "Total number of source adapter fetches",
		},
		[]string{"source", "status"}, // status: success|error|rate_limited|circuit_open|timeout
	)

	SourceLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentimental_source_latency_seconds",
			Help:    "Source adapter fetch latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"source"},
	)

	SourceItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentimental_source_items_total",
			Help: "Items emitted by source adapters",
		},
		[]string{"source"},
	)

	// Pipeline metrics
	ItemsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentimental_items_dropped_total",
			Help: "Items dropped before classification",
		},
		[]string{"reason"}, // reason: noise|duplicate
	)

	PipelineRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentimental_pipeline_runs_total",
			Help: "Total number of analysis runs",
		},
		[]string{"status"}, // status: success|no_data|error|cached
	)

	PipelineDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentimental_pipeline_duration_seconds",
			Help:    "End-to-end analysis duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)

	ClassifiedItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentimental_classified_items_total",
			Help: "Classified items by primary sentiment",
		},
		[]string{"sentiment"},
	)

	// Cache metrics
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentimental_report_cache_lookups_total",
			Help: "Report cache lookups",
		},
		[]string{"result"}, // result: hit|miss|error
	)

	// Worker metrics
	WorkerExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentimental_worker_executions_total",
			Help: "Total number of worker executions",
		},
		[]string{"worker", "status"},
	)

	WorkerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentimental_worker_duration_seconds",
			Help:    "Worker execution duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"worker"},
	)

	// Messaging metrics
	ReportsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentimental_reports_published_total",
			Help: "Reports published to the message bus",
		},
		[]string{"topic", "status"},
	)
)

func init() {
	prometheus.MustRegister(SourceFetches)
	prometheus.MustRegister(SourceLatency)
	prometheus.MustRegister(SourceItems)

	prometheus.MustRegister(ItemsDropped)
	prometheus.MustRegister(PipelineRuns)
	prometheus.MustRegister(PipelineDuration)
	prometheus.MustRegister(ClassifiedItems)

	prometheus.MustRegister(CacheLookups)

	prometheus.MustRegister(WorkerExecutions)
	prometheus.MustRegister(WorkerDuration)

	prometheus.MustRegister(ReportsPublished)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordSourceFetch records one adapter invocation
func RecordSourceFetch(source, status string, latency time.Duration, items int) {
	SourceFetches.WithLabelValues(source, status).Inc()
	SourceLatency.WithLabelValues(source).Observe(latency.Seconds())
	if items > 0 {
		SourceItems.WithLabelValues(source).Add(float64(items))
	}
}

// RecordDropped records items removed before classification
func RecordDropped(reason string, n int) {
	if n > 0 {
		ItemsDropped.WithLabelValues(reason).Add(float64(n))
	}
}

// RecordPipelineRun records one analysis run
func RecordPipelineRun(status string, duration time.Duration) {
	PipelineRuns.WithLabelValues(status).Inc()
	PipelineDuration.Observe(duration.Seconds())
}

// RecordWorkerExecution records a worker execution
func RecordWorkerExecution(worker string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	WorkerExecutions.WithLabelValues(worker, status).Inc()
	WorkerDuration.WithLabelValues(worker).Observe(duration.Seconds())
}
