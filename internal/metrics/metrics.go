// SPDX-License-Identifier: MIT
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Catalog metrics
	wellsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wellcore_wells_total",
		Help: "Number of wells in the catalog (last scan)",
	})

	scanFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wellcore_scan_failures_total",
		Help: "Well directories that failed to scan, by reason",
	}, []string{"reason"}) // reason=meta|logs|attrs|overlap

	scanDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wellcore_scan_duration_seconds",
		Help:    "Time spent scanning the data directory",
		Buckets: prometheus.DefBuckets,
	})

	catalogWriteErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wellcore_catalog_write_errors_total",
		Help: "Total number of catalog write failures",
	})

	// Parsing metrics
	attrLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wellcore_attr_loads_total",
		Help: "Attribute file loads by attribute and outcome",
	}, []string{"attr", "outcome"}) // outcome=ok|error

	// Matching metrics
	matchRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wellcore_match_runs_total",
		Help: "Core-to-log matching runs by outcome",
	}, []string{"outcome"}) // outcome=ok|error

	matchR2 = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wellcore_match_r2",
		Help:    "R² of accepted matching segments",
		Buckets: []float64{0.5, 0.7, 0.8, 0.9, 0.95, 0.99, 1},
	})

	// Cache metrics
	cacheOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wellcore_cache_ops_total",
		Help: "Frame cache operations by backend and outcome",
	}, []string{"backend", "outcome"}) // outcome=hit|miss|set|error
)

func RecordWellsCount(n int) { wellsTotal.Set(float64(n)) }

func IncScanFailure(reason string) { scanFailuresTotal.WithLabelValues(reason).Inc() }

func ObserveScanDuration(s float64) { scanDurationSeconds.Observe(s) }

func IncCatalogWriteError() { catalogWriteErrors.Inc() }

func IncAttrLoad(attr, outcome string) { attrLoadsTotal.WithLabelValues(attr, outcome).Inc() }

func IncMatchRun(outcome string) { matchRunsTotal.WithLabelValues(outcome).Inc() }

func ObserveMatchR2(r2 float64) { matchR2.Observe(r2) }

func IncCacheOp(backend, outcome string) { cacheOpsTotal.WithLabelValues(backend, outcome).Inc() }
