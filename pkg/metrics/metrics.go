package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	PagesInFlight       prometheus.Gauge
	ComparisonsTotal    *prometheus.CounterVec
	ComparisonDuration  prometheus.Histogram
	PageQualityScores   prometheus.Histogram
)

func Init() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	PagesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "comparison_pages_in_flight",
			Help: "Number of page pairs currently being compared.",
		},
	)

	ComparisonsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comparisons_total",
			Help: "Total number of page-pair comparisons.",
		},
		[]string{"status"}, // completed, skipped_cached, load_failed, report_failed
	)

	ComparisonDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "comparison_duration_seconds",
			Help:    "Duration of one page-pair comparison including load and report.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30},
		},
	)

	PageQualityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "page_quality_score",
			Help:    "Distribution of per-page interactional quality scores.",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)
}
