package analysis

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// partitionsTotal counts analysed subgroups by dimension
	partitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_partitions_total",
		Help: "Total subgroups analysed by dimension",
	}, []string{"dimension"})

	// partitionDuration tracks per-subgroup analysis latency
	partitionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "insights_partition_duration_seconds",
		Help:    "Subgroup analysis duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~4min
	}, []string{"dimension"})

	// patternsSurfaced counts report rows by pattern type
	patternsSurfaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_patterns_surfaced_total",
		Help: "Total pattern rows produced by pattern type",
	}, []string{"pattern_type"})

	// minerNodes counts search nodes by outcome
	minerNodes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_miner_nodes_total",
		Help: "PrefixSpan search nodes by outcome",
	}, []string{"outcome"})

	// runsTotal counts analysis runs by result
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_runs_total",
		Help: "Total analysis runs by result",
	}, []string{"result"})
)
