// Package metrics provides Prometheus metrics collection for the distribution service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// StockAssignmentsTotal counts assignment requests by outcome.
	StockAssignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_assignments_total",
			Help: "Total number of stock assignment requests",
		},
		[]string{"status"},
	)

	// StockAssignmentDelta tracks the absolute size of assignment corrections in pieces.
	StockAssignmentDelta = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stock_assignment_delta_pieces",
			Help:    "Absolute per-line assignment delta in pieces",
			Buckets: []float64{1, 6, 12, 24, 48, 120, 240, 480, 1200},
		},
	)

	// WarehouseMovementsTotal counts ledger entries by movement type.
	WarehouseMovementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warehouse_movements_total",
			Help: "Total number of warehouse movements written",
		},
		[]string{"type"},
	)

	// SalesRecordedTotal counts sale requests by outcome.
	SalesRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sales_recorded_total",
			Help: "Total number of sale requests",
		},
		[]string{"status"},
	)

	// OperationDuration tracks service operation latency.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stock_operation_duration_seconds",
			Help:    "Stock operation duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
		[]string{"operation"},
	)

	// CacheOperationsTotal tracks catalogue cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogue_cache_operations_total",
			Help: "Total number of catalogue cache operations",
		},
		[]string{"operation", "result"},
	)

	// CacheSize tracks current cache size.
	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalogue_cache_size",
			Help: "Current catalogue cache size",
		},
	)

	// CacheCapacity tracks cache capacity.
	CacheCapacity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalogue_cache_capacity",
			Help: "Catalogue cache capacity",
		},
	)

	// CircuitBreakerState exposes each breaker's state: 0 closed, 1 open, 2 half-open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"name"},
	)

	// AsyncLogDropped counts log entries dropped because the worker queue was full.
	AsyncLogDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "async_log_dropped_total",
			Help: "Log entries dropped by the async writer",
		},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordAssignment records an assignment outcome and the size of each non-zero delta.
func RecordAssignment(duration time.Duration, status string, deltas ...int) {
	OperationDuration.WithLabelValues("assign").Observe(duration.Seconds())
	StockAssignmentsTotal.WithLabelValues(status).Inc()
	for _, d := range deltas {
		if d == 0 {
			continue
		}
		if d < 0 {
			d = -d
		}
		StockAssignmentDelta.Observe(float64(d))
	}
}

// RecordMovement counts one written warehouse movement.
func RecordMovement(movementType string) {
	WarehouseMovementsTotal.WithLabelValues(movementType).Inc()
}

// RecordSale records a sale outcome.
func RecordSale(duration time.Duration, status string) {
	OperationDuration.WithLabelValues("sale").Observe(duration.Seconds())
	SalesRecordedTotal.WithLabelValues(status).Inc()
}

// ObserveOperation records the latency of a named operation.
func ObserveOperation(operation string, duration time.Duration) {
	OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// UpdateCacheMetrics updates cache size and capacity metrics.
func UpdateCacheMetrics(size, capacity int) {
	CacheSize.Set(float64(size))
	CacheCapacity.Set(float64(capacity))
}

// SetCircuitBreakerState publishes a breaker state as its numeric value.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordLogDropped counts a dropped async log entry.
func RecordLogDropped() {
	AsyncLogDropped.Inc()
}
