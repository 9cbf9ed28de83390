package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(PrometheusMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/error", func(c *gin.Context) {
		c.String(http.StatusInternalServerError, "error")
	})

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{
			name:           "records metrics for successful request",
			path:           "/test",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "records metrics for error request",
			path:           "/error",
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(HTTPRequestTotal.WithLabelValues(http.MethodGet, "/test", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(HTTPRequestTotal.WithLabelValues(http.MethodGet, "/error", "500")))
}

func TestRecordAssignment(t *testing.T) {
	before := testutil.ToFloat64(StockAssignmentsTotal.WithLabelValues("success"))
	RecordAssignment(10*time.Millisecond, "success", 48, -24, 0)
	assert.Equal(t, before+1, testutil.ToFloat64(StockAssignmentsTotal.WithLabelValues("success")))
}

func TestRecordMovement(t *testing.T) {
	before := testutil.ToFloat64(WarehouseMovementsTotal.WithLabelValues("RETURN"))
	RecordMovement("RETURN")
	RecordMovement("RETURN")
	assert.Equal(t, before+2, testutil.ToFloat64(WarehouseMovementsTotal.WithLabelValues("RETURN")))
}

func TestRecordSale(t *testing.T) {
	before := testutil.ToFloat64(SalesRecordedTotal.WithLabelValues("oversell"))
	RecordSale(time.Millisecond, "oversell")
	assert.Equal(t, before+1, testutil.ToFloat64(SalesRecordedTotal.WithLabelValues("oversell")))
}

func TestRecordCacheOperation(t *testing.T) {
	before := testutil.ToFloat64(CacheOperationsTotal.WithLabelValues("get", "hit"))
	RecordCacheOperation("get", "hit")
	RecordCacheOperation("get", "miss")
	assert.Equal(t, before+1, testutil.ToFloat64(CacheOperationsTotal.WithLabelValues("get", "hit")))
}

func TestUpdateCacheMetrics(t *testing.T) {
	UpdateCacheMetrics(50, 100)
	assert.Equal(t, 50.0, testutil.ToFloat64(CacheSize))
	assert.Equal(t, 100.0, testutil.ToFloat64(CacheCapacity))
}

func TestSetCircuitBreakerState(t *testing.T) {
	SetCircuitBreakerState("products", 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(CircuitBreakerState.WithLabelValues("products")))
	SetCircuitBreakerState("products", 0)
	assert.Equal(t, 0.0, testutil.ToFloat64(CircuitBreakerState.WithLabelValues("products")))
}

func TestRecordLogDropped(t *testing.T) {
	before := testutil.ToFloat64(AsyncLogDropped)
	RecordLogDropped()
	assert.Equal(t, before+1, testutil.ToFloat64(AsyncLogDropped))
}
