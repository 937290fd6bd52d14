package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for catalog loading, the filter
// pipeline, and proximity searches.
type Metrics struct {
	CatalogRecords *prometheus.GaugeVec // labels: catalog={cities,quakes}

	// Filter pipeline metrics.
	StageResults    *prometheus.CounterVec // labels: stage, status={narrowed,accepted_all,rejected}
	RecordsRetained *prometheus.GaugeVec   // labels: stage

	// Proximity metrics.
	ProximitySearches prometheus.Counter
	CitiesMatched     prometheus.Histogram
	NearbyCache       *prometheus.CounterVec // labels: result={hit,miss,bypass}

	ReportDuration prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.CatalogRecords,
		m.StageResults,
		m.RecordsRetained,
		m.ProximitySearches,
		m.CitiesMatched,
		m.NearbyCache,
		m.ReportDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		CatalogRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "quake_impact",
			Name:      "catalog_records",
			Help:      "Records loaded per catalog.",
		}, []string{"catalog"}),
		StageResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_impact",
			Name:      "filter_stage_results_total",
			Help:      "Filter stage query outcomes by stage and status.",
		}, []string{"stage", "status"}),
		RecordsRetained: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "quake_impact",
			Name:      "filter_records_retained",
			Help:      "Working set size after the most recent query at each stage.",
		}, []string{"stage"}),
		ProximitySearches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_impact",
			Name:      "proximity_searches_total",
			Help:      "Radius searches run against the city catalog.",
		}),
		CitiesMatched: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_impact",
			Name:      "proximity_cities_matched",
			Help:      "Cities returned per radius search.",
			Buckets:   []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
		}),
		NearbyCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_impact",
			Name:      "nearby_cache_total",
			Help:      "Nearby-city cache lookups by result.",
		}, []string{"result"}),
		ReportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_impact",
			Name:      "report_duration_seconds",
			Help:      "Time to build an impact report from a filtered working set.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
	}
}
