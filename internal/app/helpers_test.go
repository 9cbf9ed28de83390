package app

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/guttosm/distribution-service/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			RateLimit:      100,
			RateWindow:     time.Minute,
			RequestTimeout: 5 * time.Second,
		},
		Cache: config.CacheConfig{Size: 100, TTL: time.Minute},
		Auth: config.AuthConfig{
			JWTSecretKey: "app-test-secret",
			Issuer:       "distribution-service",
			TokenTTL:     time.Hour,
		},
		Log: config.LogConfig{Level: "error"},
	}
}

func newTestApp(t *testing.T, cfg config.Config) *App {
	t.Helper()
	application, err := InitializeApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, application.Close(context.Background()))
	})
	return application
}

func send(application *App, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	application.Router.ServeHTTP(w, req)
	return w
}
