//go:build !integration

package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetTranslator_IsShared(t *testing.T) {
	assert.Same(t, GetTranslator(), GetTranslator())
}

func TestTranslator_Translate(t *testing.T) {
	translator := NewTranslator()

	tests := []struct {
		name     string
		key      string
		locale   string
		expected string
	}{
		{name: "oversell in english", key: ErrKeyOversell, locale: "en", expected: "Not enough stock left on the route"},
		{name: "oversell in portuguese", key: ErrKeyOversell, locale: "pt", expected: "Estoque insuficiente na rota"},
		{name: "oversell in dutch", key: ErrKeyOversell, locale: "nl", expected: "Onvoldoende voorraad op de route"},
		{name: "warehouse shortage", key: ErrKeyInsufficientStock, locale: "pt", expected: "Estoque insuficiente no armazém"},
		{name: "started route", key: ErrKeyRouteStarted, locale: "nl", expected: "Deze route is al gestart"},
		{name: "empty locale uses english", key: ErrKeyRouteStarted, locale: "", expected: "This route has already been started"},
		{name: "unsupported locale uses english", key: ErrKeyInsufficientStock, locale: "fr", expected: "Not enough stock in the warehouse"},
		{name: "unknown key is echoed", key: "error.truck_on_fire", locale: "en", expected: "error.truck_on_fire"},
		{name: "unknown key in unsupported locale", key: "error.truck_on_fire", locale: "fr", expected: "error.truck_on_fire"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, translator.Translate(tt.key, tt.locale))
		})
	}
}

func TestTranslator_EveryLocaleHasEveryKey(t *testing.T) {
	messages := getDefaultMessages()
	for key := range messages[DefaultLocale] {
		for locale, localeMessages := range messages {
			_, ok := localeMessages[key]
			assert.True(t, ok, "locale %s is missing %s", locale, key)
		}
	}
}

func TestGetLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		acceptLanguage string
		expected       string
	}{
		{
			name:           "no header returns default",
			acceptLanguage: "",
			expected:       DefaultLocale,
		},
		{
			name:           "english header",
			acceptLanguage: "en",
			expected:       "en",
		},
		{
			name:           "portuguese header",
			acceptLanguage: "pt",
			expected:       "pt",
		},
		{
			name:           "dutch header",
			acceptLanguage: "nl",
			expected:       "nl",
		},
		{
			name:           "full locale with region",
			acceptLanguage: "en-US",
			expected:       "en",
		},
		{
			name:           "multiple languages",
			acceptLanguage: "en-US,en;q=0.9,pt;q=0.8",
			expected:       "en",
		},
		{
			name:           "unsupported language defaults",
			acceptLanguage: "fr",
			expected:       DefaultLocale,
		},
		{
			name:           "case insensitive",
			acceptLanguage: "EN",
			expected:       "en",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.acceptLanguage != "" {
				req.Header.Set(AcceptLanguageHeader, tt.acceptLanguage)
			}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = req

			result := GetLocale(c)
			assert.Equal(t, tt.expected, result)
		})
	}
}
