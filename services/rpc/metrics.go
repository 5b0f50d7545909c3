package rpc

import (
	"sync"

	"github.com/pivx-labs/pivxd/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusExecute       prometheus.Histogram
	prometheusExecuteBatch  prometheus.Histogram
	prometheusBatchSize     prometheus.Histogram
	prometheusHandleHelp    prometheus.Histogram
	prometheusWarmupRejects prometheus.Counter
)

var (
	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusExecute = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "rpc",
			Name:      "execute",
			Help:      "Histogram of calls to Execute in the rpc service",
			Buckets:   util.MetricsBucketsMilliSeconds,
		},
	)
	prometheusExecuteBatch = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "rpc",
			Name:      "execute_batch",
			Help:      "Histogram of calls to ExecBatch in the rpc service",
			Buckets:   util.MetricsBucketsMilliSeconds,
		},
	)
	prometheusBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "rpc",
			Name:      "batch_size",
			Help:      "Histogram of request counts per batch in the rpc service",
			Buckets:   util.MetricsBucketsSizeSmall,
		},
	)
	prometheusHandleHelp = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "rpc",
			Name:      "help",
			Help:      "Histogram of calls to handleHelp in the rpc service",
			Buckets:   util.MetricsBucketsMilliSeconds,
		},
	)
	prometheusWarmupRejects = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rpc",
			Name:      "warmup_rejects",
			Help:      "Number of calls rejected because the node was still warming up",
		},
	)
}
