package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/app-estudos/estudos/pkg/router"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "estudos").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures NewMetrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "estudos",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors of the application shell.
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	resolvesTotal    *prometheus.CounterVec
	loadsTotal       *prometheus.CounterVec
	loadDuration     *prometheus.HistogramVec
	navigationsTotal *prometheus.CounterVec
	connections      prometheus.Gauge
}

// NewMetrics registers the collectors.
//
// Metrics collected:
//   - estudos_http_requests_total: requests by method, route pattern and status
//   - estudos_http_request_duration_seconds: request duration by method and route pattern
//   - estudos_route_resolves_total: route resolutions by result (matched, not_found)
//   - estudos_route_loads_total: view loads by route and result (loaded, cached, error, canceled)
//   - estudos_route_load_duration_seconds: duration of loads that ran a loader
//   - estudos_navigations_total: client navigations by result (committed, superseded, error)
//   - estudos_navigation_connections: open navigation connections
//
// Registering twice on the same registry panics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: config.ConstLabels,
		}, []string{"method", "route", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"method", "route"}),

		resolvesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "route_resolves_total",
			Help:        "Total number of route resolutions",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		loadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "route_loads_total",
			Help:        "Total number of route view loads",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "result"}),

		loadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "route_load_duration_seconds",
			Help:        "Duration of route view loads that ran a loader",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		navigationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of client navigations",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_connections",
			Help:        "Number of open navigation connections",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Handler returns HTTP middleware recording request counts and durations.
// Requests are labelled with the chi route pattern, not the raw path, to
// keep cardinality bounded.
func (m *Metrics) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := routePattern(r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// Observer returns a route table observer feeding the resolve and load
// metrics.
func (m *Metrics) Observer() router.Observer {
	return metricsObserver{m}
}

type metricsObserver struct {
	m *Metrics
}

func (o metricsObserver) OnResolve(e router.ResolveEvent) {
	result := "matched"
	if e.Err != nil {
		result = "not_found"
	}
	o.m.resolvesTotal.WithLabelValues(result).Inc()
}

func (o metricsObserver) OnLoadStart(ctx context.Context, _ *router.Node) context.Context {
	return ctx
}

func (o metricsObserver) OnLoadEnd(_ context.Context, e router.LoadEvent) {
	route := e.Node.String()
	result := loadResult(e)
	o.m.loadsTotal.WithLabelValues(route, result).Inc()
	if result == "loaded" {
		o.m.loadDuration.WithLabelValues(route).Observe(e.Duration.Seconds())
	}
}

func loadResult(e router.LoadEvent) string {
	switch {
	case e.Err == nil && e.Cached:
		return "cached"
	case e.Err == nil:
		return "loaded"
	case errors.Is(e.Err, context.Canceled), errors.Is(e.Err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

// RecordNavigation counts a navigation outcome.
func (m *Metrics) RecordNavigation(result string) {
	m.navigationsTotal.WithLabelValues(result).Inc()
}

// ConnectionOpened records a new navigation connection.
func (m *Metrics) ConnectionOpened() { m.connections.Inc() }

// ConnectionClosed records a closed navigation connection.
func (m *Metrics) ConnectionClosed() { m.connections.Dec() }
