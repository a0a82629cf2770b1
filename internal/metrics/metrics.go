// Package metrics exposes Prometheus instrumentation for the storefront.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Order outcome label values.
const (
	OrderCreated = "created"
	OrderPaid    = "paid"
	OrderFailed  = "failed"
)

// Metrics holds the storefront's Prometheus collectors.
// Uses a private registry so tests can construct instances freely.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	orders   *prometheus.CounterVec
}

// New creates and registers the storefront collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopfront",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, path, and status.",
		}, []string{"method", "path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shopfront",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and path.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "path"}),
		orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopfront",
			Name:      "orders_total",
			Help:      "Order submissions by outcome.",
		}, []string{"outcome"}),
	}

	registry.MustRegister(m.requests, m.duration, m.orders)
	return m
}

// Handler returns the /metrics scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveOrder records an order submission outcome.
func (m *Metrics) ObserveOrder(outcome string) {
	m.orders.WithLabelValues(outcome).Inc()
}

// Middleware returns HTTP middleware that records request count and latency.
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			path := normalizePath(r.URL.Path)
			m.requests.WithLabelValues(r.Method, path, strconv.Itoa(sw.status)).Inc()
			m.duration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// normalizePath collapses parameterized routes to keep label cardinality
// low: product IDs would otherwise create a series per product.
func normalizePath(path string) string {
	if strings.HasPrefix(path, "/api/products/") {
		return "/api/products/{id}"
	}
	switch path {
	case "/", "/api/products", "/api/order", "/stripe/key", "/health", "/metrics", "/mcp":
		return path
	}
	return "/static"
}

// statusWriter captures the response status for labeling.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(status)
	}
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}
