package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/distribution-service/internal/circuitbreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_Liveness(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHealthHandler().Register(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthHandler_Readiness(t *testing.T) {
	gin.SetMode(gin.TestMode)

	openBreaker := func() *circuitbreaker.CircuitBreaker {
		cb := circuitbreaker.New(circuitbreaker.Config{Name: "sales", FailureThreshold: 1, Timeout: time.Hour})
		_ = cb.Execute(context.Background(), func() error { return errors.New("down") })
		return cb
	}

	tests := []struct {
		name           string
		setupHandler   func() *HealthHandler
		expectedStatus int
		expectedChecks map[string]interface{}
	}{
		{
			name: "readiness check no checkers",
			setupHandler: func() *HealthHandler {
				return NewHealthHandler()
			},
			expectedStatus: http.StatusOK,
			expectedChecks: map[string]interface{}{"service": "ok"},
		},
		{
			name: "healthy database and closed circuit",
			setupHandler: func() *HealthHandler {
				handler := NewHealthHandler()
				handler.RegisterChecker("mongodb", HealthCheckFunc(func(ctx context.Context) error { return nil }))
				handler.RegisterCircuitBreaker("products", circuitbreaker.New(circuitbreaker.DefaultConfig()))
				return handler
			},
			expectedStatus: http.StatusOK,
			expectedChecks: map[string]interface{}{"mongodb": "ok", "products_circuit": "closed"},
		},
		{
			name: "failing database",
			setupHandler: func() *HealthHandler {
				handler := NewHealthHandler()
				handler.RegisterChecker("mongodb", HealthCheckFunc(func(ctx context.Context) error {
					return errors.New("connection refused")
				}))
				return handler
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedChecks: map[string]interface{}{"mongodb": "connection refused"},
		},
		{
			name: "open circuit breaker",
			setupHandler: func() *HealthHandler {
				handler := NewHealthHandler()
				handler.RegisterCircuitBreaker("sales", openBreaker())
				return handler
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedChecks: map[string]interface{}{"sales_circuit": "open"},
		},
		{
			name: "nil circuit breaker is ignored",
			setupHandler: func() *HealthHandler {
				handler := NewHealthHandler()
				handler.RegisterCircuitBreaker("logs", nil)
				return handler
			},
			expectedStatus: http.StatusOK,
			expectedChecks: map[string]interface{}{"service": "ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			tt.setupHandler().Register(router)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			var body struct {
				Status string                 `json:"status"`
				Checks map[string]interface{} `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedChecks, body.Checks)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "ok", body.Status)
			} else {
				assert.Equal(t, "degraded", body.Status)
			}
		})
	}
}
