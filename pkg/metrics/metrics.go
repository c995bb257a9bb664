package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTP holds the per-endpoint request metrics
type HTTP struct {
	RequestCounter *prometheus.CounterVec
	RequestLatency *prometheus.HistogramVec
	RequestSummary *prometheus.SummaryVec
}

// GRPC holds the per-method RPC metrics
type GRPC struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ErrorsTotal     *prometheus.CounterVec
}

// Catalog holds gauges describing catalog contents
type Catalog struct {
	Products       prometheus.Gauge
	LowStock       prometheus.Gauge
	OrphanedImages prometheus.Gauge
	Brands         prometheus.Gauge
}

// Registry groups every collector exposed by the service
type Registry struct {
	HTTP    *HTTP
	GRPC    *GRPC
	Catalog *Catalog
}

// NewRegistry creates the collectors and registers them with reg.
// Tests pass a fresh prometheus.NewRegistry() to avoid duplicate registration.
func NewRegistry(namespace string, reg prometheus.Registerer) *Registry {
	httpMetrics := &HTTP{
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		// p50, p90, p95, p99
		RequestSummary: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Namespace: namespace,
				Name:      "request_duration_summary",
				Help:      "Summary of request durations with percentiles",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.95: 0.01,
					0.99: 0.001,
				},
				MaxAge: 10 * time.Minute,
			},
			[]string{"method", "endpoint"},
		),
	}

	grpcMetrics := &GRPC{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "grpc_requests_total",
				Help:      "Total number of gRPC requests",
			},
			[]string{"method", "status_code"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "grpc_request_duration_seconds",
				Help:      "Duration of gRPC requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "grpc_errors_total",
				Help:      "Total number of gRPC errors",
			},
			[]string{"method", "error_code"},
		),
	}

	catalog := &Catalog{
		Products: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_products",
			Help:      "Number of live (not soft-deleted) products",
		}),
		LowStock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "low_stock_products",
			Help:      "Number of products at or below their minimum stock",
		}),
		OrphanedImages: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "orphaned_images",
			Help:      "Number of product images not attached to any product",
		}),
		Brands: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_brands",
			Help:      "Number of brands",
		}),
	}

	reg.MustRegister(
		httpMetrics.RequestCounter,
		httpMetrics.RequestLatency,
		httpMetrics.RequestSummary,
		grpcMetrics.RequestsTotal,
		grpcMetrics.RequestDuration,
		grpcMetrics.ErrorsTotal,
		catalog.Products,
		catalog.LowStock,
		catalog.OrphanedImages,
		catalog.Brands,
	)

	return &Registry{HTTP: httpMetrics, GRPC: grpcMetrics, Catalog: catalog}
}

// Observe records one HTTP request
func (m *HTTP) Observe(method, endpoint, status string, duration time.Duration) {
	m.RequestCounter.WithLabelValues(method, endpoint, status).Inc()
	m.RequestLatency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	m.RequestSummary.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Wrap records request count and latency of next under the route template endpoint
func (m *HTTP) Wrap(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		m.Observe(r.Method, endpoint, strconv.Itoa(rw.statusCode), time.Since(start))
	}
}
