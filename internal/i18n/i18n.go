// Package i18n provides internationalization support for the distribution service.
// It handles translation of user-facing messages and error messages.
package i18n

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is the default language locale (English).
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	// defaultTranslator is the singleton translator instance.
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator handles message translation for different locales.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a new translator with the default messages.
func NewTranslator() *Translator {
	return &Translator{
		messages: getDefaultMessages(),
	}
}

// GetTranslator returns the default singleton translator instance.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the translated message for the given key and locale.
// Falls back to DefaultLocale if the locale is not found.
func (t *Translator) Translate(key, locale string) string {
	if locale == "" {
		locale = DefaultLocale
	}

	localeMessages, ok := t.messages[locale]
	if !ok {
		localeMessages = t.messages[DefaultLocale]
	}

	msg, ok := localeMessages[key]
	if !ok {
		// Fallback to default locale
		if defaultMessages := t.messages[DefaultLocale]; defaultMessages != nil {
			if fallbackMsg, exists := defaultMessages[key]; exists {
				return fallbackMsg
			}
		}
		return key
	}

	return msg
}

// GetLocale extracts the locale from the gin context.
// Checks Accept-Language header and falls back to DefaultLocale.
func GetLocale(c *gin.Context) string {
	acceptLang := c.GetHeader(AcceptLanguageHeader)
	if acceptLang == "" {
		return DefaultLocale
	}

	// Parse Accept-Language header (e.g., "en-US,en;q=0.9,pt;q=0.8")
	parts := strings.Split(acceptLang, ",")
	if len(parts) > 0 {
		lang := strings.TrimSpace(strings.Split(parts[0], ";")[0])
		// Extract base language (e.g., "en" from "en-US")
		if idx := strings.Index(lang, "-"); idx > 0 {
			lang = lang[:idx]
		}
		// Normalize to lowercase
		lang = strings.ToLower(lang)
		// Validate it's a supported locale
		if _, ok := getDefaultMessages()[lang]; ok {
			return lang
		}
	}

	return DefaultLocale
}

// getDefaultMessages returns the default message translations.
func getDefaultMessages() map[string]map[string]string {
	return map[string]map[string]string{
		"en": {
			"error.invalid_request":        "Invalid request",
			"error.invalid_request_body":   "Invalid request body",
			"error.internal_error":         "An unexpected error occurred",
			"error.unauthorized":           "Unauthorized",
			"error.forbidden":              "Your role is not allowed to do this",
			"error.not_found":              "Not found",
			"error.rate_limit_exceeded":    "Too many requests, please try again later",
			"error.conflict":               "Conflict",
			"error.invalid_token":          "Invalid or expired token",
			"error.token_required":         "Authentication token is required",
			"error.timeout":                "The request took too long",
			"error.insufficient_stock":     "Not enough stock in the warehouse",
			"error.oversell":               "Not enough stock left on the route",
			"error.route_started":          "This route has already been started",
			"error.concurrent_update":      "The record changed, please reload and retry",
			"error.assignment_in_progress": "Another change to this route is in progress",
			"error.idempotency_conflict":   "Idempotency key was already used with a different request",
		},
		"pt": {
			"error.invalid_request":        "Requisição inválida",
			"error.invalid_request_body":   "Corpo da requisição inválido",
			"error.internal_error":         "Ocorreu um erro inesperado",
			"error.unauthorized":           "Não autorizado",
			"error.forbidden":              "Seu perfil não tem permissão para isso",
			"error.not_found":              "Não encontrado",
			"error.rate_limit_exceeded":    "Muitas requisições, tente novamente mais tarde",
			"error.conflict":               "Conflito",
			"error.invalid_token":          "Token inválido ou expirado",
			"error.token_required":         "Token de autenticação é obrigatório",
			"error.timeout":                "A requisição demorou demais",
			"error.insufficient_stock":     "Estoque insuficiente no armazém",
			"error.oversell":               "Estoque insuficiente na rota",
			"error.route_started":          "Esta rota já foi iniciada",
			"error.concurrent_update":      "O registro mudou, recarregue e tente novamente",
			"error.assignment_in_progress": "Outra alteração desta rota está em andamento",
			"error.idempotency_conflict":   "Chave de idempotência já usada com outra requisição",
		},
		"nl": {
			"error.invalid_request":        "Ongeldig verzoek",
			"error.invalid_request_body":   "Ongeldige aanvraag body",
			"error.internal_error":         "Er is een onverwachte fout opgetreden",
			"error.unauthorized":           "Niet geautoriseerd",
			"error.forbidden":              "Uw rol mag dit niet doen",
			"error.not_found":              "Niet gevonden",
			"error.rate_limit_exceeded":    "Te veel verzoeken, probeer het later opnieuw",
			"error.conflict":               "Conflict",
			"error.invalid_token":          "Ongeldig of verlopen token",
			"error.token_required":         "Authenticatietoken is vereist",
			"error.timeout":                "Het verzoek duurde te lang",
			"error.insufficient_stock":     "Onvoldoende voorraad in het magazijn",
			"error.oversell":               "Onvoldoende voorraad op de route",
			"error.route_started":          "Deze route is al gestart",
			"error.concurrent_update":      "Het record is gewijzigd, herlaad en probeer opnieuw",
			"error.assignment_in_progress": "Er loopt al een andere wijziging op deze route",
			"error.idempotency_conflict":   "Idempotentiesleutel al gebruikt met een ander verzoek",
		},
	}
}
