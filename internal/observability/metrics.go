package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Ingestion states reported by the IngestionState gauge.
const (
	StateLoading = 0
	StateReady   = 1
	StateFailed  = 2
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	// Ingestion metrics.
	RowsRead          prometheus.Counter
	RowsRejected      *prometheus.CounterVec // labels: reason
	RecordsLoaded     prometheus.Gauge
	IngestionDuration prometheus.Histogram
	IngestionState    prometheus.Gauge

	// View metrics.
	Projections      *prometheus.CounterVec // labels: view={table,chart,summary,detail}
	SelectionChanges prometheus.Counter
	WebsocketClients prometheus.Gauge

	// Export metrics.
	ExportMessages *prometheus.CounterVec // labels: outcome={success,error}

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers all dashboard metrics with reg. The CLI uses a
// private registry per invocation.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_dash",
			Name:      "rows_read_total",
			Help:      "Total CSV data rows read from the feed.",
		}),
		RowsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_dash",
			Name:      "rows_rejected_total",
			Help:      "Feed rows dropped by the normalizer, by reason.",
		}, []string{"reason"}),
		RecordsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_dash",
			Name:      "records_loaded",
			Help:      "Records in the current snapshot.",
		}),
		IngestionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_dash",
			Name:      "ingestion_duration_seconds",
			Help:      "Duration of a complete fetch-parse-normalize pass.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		IngestionState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_dash",
			Name:      "ingestion_state",
			Help:      "0 while loading, 1 when ready, 2 after an ingestion failure.",
		}),
		Projections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_dash",
			Name:      "projections_total",
			Help:      "View projections served, by view.",
		}, []string{"view"}),
		SelectionChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_dash",
			Name:      "selection_changes_total",
			Help:      "Selections made or cleared.",
		}),
		WebsocketClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_dash",
			Name:      "websocket_clients",
			Help:      "Connected selection websocket clients.",
		}),
		ExportMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_dash",
			Name:      "export_messages_total",
			Help:      "Records exported to the sink topic, by outcome.",
		}, []string{"outcome"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_dash",
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_dash",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_dash",
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_dash",
			Name:      "geocode_enabled",
			Help:      "1 when detail geocoding is enabled, 0 otherwise.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RowsRead,
		m.RowsRejected,
		m.RecordsLoaded,
		m.IngestionDuration,
		m.IngestionState,
		m.Projections,
		m.SelectionChanges,
		m.WebsocketClients,
		m.ExportMessages,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	}
}
