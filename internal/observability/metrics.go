package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "aqi_report"

// Metrics holds the Prometheus counters, histograms, and gauges for report generation.
type Metrics struct {
	Reports        *prometheus.CounterVec // labels: outcome={success,error}
	ReportDuration prometheus.Histogram

	// Upstream PurpleAir API metrics.
	UpstreamErrors   *prometheus.CounterVec // labels: kind={transport,content_type,malformed_payload,parse}
	UpstreamDuration prometheus.Histogram

	// SensorAQI is the most recent computed index per sensor and averaging window.
	SensorAQI *prometheus.GaugeVec // labels: sensor, field

	// Kafka publishing metrics.
	ReadingsPublished prometheus.Counter
	PublishErrors     prometheus.Counter
}

// NewMetrics creates and registers all report metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.Reports,
		m.ReportDuration,
		m.UpstreamErrors,
		m.UpstreamDuration,
		m.SensorAQI,
		m.ReadingsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as
// many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Report invocations by outcome.",
		}, []string{"outcome"}),
		ReportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_duration_seconds",
			Help:      "Duration of a complete fetch-convert-render cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		UpstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_errors_total",
			Help:      "PurpleAir API failures by kind.",
		}, []string{"kind"}),
		UpstreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "PurpleAir API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SensorAQI: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sensor_aqi",
			Help:      "Latest PM2.5 AQI per sensor and averaging window.",
		}, []string{"sensor", "field"}),
		ReadingsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readings_published_total",
			Help:      "AQI readings written to Kafka.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed Kafka publish attempts.",
		}),
	}
}
