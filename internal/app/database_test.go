//go:build !integration

package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/distribution-service/config"
	"github.com/guttosm/distribution-service/internal/circuitbreaker"
	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeDatabase_Disabled(t *testing.T) {
	components, err := InitializeDatabase(config.DatabaseConfig{Enabled: false})

	require.NoError(t, err)
	require.NotNil(t, components)
	assert.Nil(t, components.HealthCheck)
	assert.Empty(t, components.CircuitBreakers)

	ctx := context.Background()
	require.NoError(t, components.UoW.Do(ctx, func(ctx context.Context) error {
		return components.Products.Create(ctx, &model.Product{ID: "cola", Name: "Cola", PcsPerBox: 24})
	}))
	product, err := components.Products.FindByID(ctx, "cola")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.NoError(t, components.Close(ctx))
}

func TestNewCircuitBreaker(t *testing.T) {
	cfg := config.DatabaseConfig{
		CircuitBreakerFailureThreshold: 1,
		CircuitBreakerSuccessThreshold: 1,
		CircuitBreakerTimeout:          time.Hour,
	}
	cb := newCircuitBreaker(cfg, "test-breaker")
	ctx := context.Background()

	t.Run("domain outcomes do not trip the breaker", func(t *testing.T) {
		err := cb.Execute(ctx, func() error { return model.ErrProductNotFound })

		assert.ErrorIs(t, err, model.ErrProductNotFound)
		assert.Equal(t, circuitbreaker.StateClosed, cb.State())
	})

	t.Run("backend failures do", func(t *testing.T) {
		_ = cb.Execute(ctx, func() error { return errors.New("connection reset") })

		assert.Equal(t, circuitbreaker.StateOpen, cb.State())
		assert.ErrorIs(t, cb.Execute(ctx, func() error { return nil }), circuitbreaker.ErrCircuitOpen)
	})
}
