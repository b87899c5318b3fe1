package prometheus

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
)

// Counter metrics
var (
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tickops_login_total",
			Help: "Total number of login attempts",
		},
	)

	LogoutCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tickops_logout_total",
			Help: "Total number of logouts",
		},
	)

	// Auth error counter by coarse type
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickops_auth_errors_total",
			Help: "Total number of authentication and authorization errors",
		},
		[]string{"type"},
	)

	// Tenancy operation counter
	TenancyOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickops_tenancy_operations_total",
			Help: "Total number of tenancy operations",
		},
		[]string{"operation"}, // "create_workspace", "add_membership", "switch", "auto_select", etc.
	)

	// Entitlement toggle counter
	EntitlementToggleCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickops_entitlement_toggles_total",
			Help: "Total number of module entitlement writes",
		},
		[]string{"module_key"},
	)

	// Expired sessions purged by lazy cleanup
	SessionPurgeCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tickops_session_purges_total",
			Help: "Total number of expired sessions removed during validation",
		},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickops_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram and gauge metrics
var (
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tickops_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tickops_db_operation_duration_seconds",
			Help:    "Database operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	ActiveSessionsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tickops_active_sessions",
			Help: "Approximate number of live sessions issued minus destroyed",
		},
	)
)

// InitMetrics registers all metrics with the default registry
func InitMetrics() {
	prometheus.MustRegister(
		LoginCounter,
		LogoutCounter,
		AuthErrorCounter,
		TenancyOperationCounter,
		EntitlementToggleCounter,
		SessionPurgeCounter,
		HTTPRequestCounter,
		HTTPRequestDuration,
		DBOperationDuration,
		ActiveSessionsGauge,
	)
}

// RecordAuthError increments the auth error counter for a type
func RecordAuthError(errorType string) {
	AuthErrorCounter.WithLabelValues(errorType).Inc()
}

// RecordTenancyOperation increments the tenancy operation counter
func RecordTenancyOperation(operation string) {
	TenancyOperationCounter.WithLabelValues(operation).Inc()
}

// TrackDBOperation returns a function that records the duration of a
// database operation when called. Use with defer:
//
//	defer prometheus.TrackDBOperation("query")(time.Now())
func TrackDBOperation(operation string) func(time.Time) {
	return func(start time.Time) {
		DBOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// MetricsMiddleware returns an Echo middleware recording HTTP metrics
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			endpoint := c.Path()
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			HTTPRequestCounter.WithLabelValues(endpoint, method, status).Inc()
			HTTPRequestDuration.WithLabelValues(endpoint, method).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// GetPrometheusHandler returns the promhttp handler for /metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}
