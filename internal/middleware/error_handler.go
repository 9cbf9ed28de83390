package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/distribution-service/internal/circuitbreaker"
	"github.com/guttosm/distribution-service/internal/domain/dto"
	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/guttosm/distribution-service/internal/i18n"
	"github.com/guttosm/distribution-service/internal/logger"
)

// errorClass is how one domain error is answered over HTTP.
type errorClass struct {
	status  int
	code    string
	key     string
	exposed bool // message carries err.Error() instead of the translated text
}

// classify maps domain errors to status codes. Anything unknown is a 500.
func classify(err error) errorClass {
	var insufficient *model.InsufficientStockError
	var oversell *model.OversellError
	switch {
	case model.IsValidation(err):
		return errorClass{http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidRequest, true}
	case errors.Is(err, model.ErrForbidden), errors.Is(err, model.ErrRouteNotClaimed):
		return errorClass{http.StatusForbidden, dto.ErrCodeForbidden, i18n.ErrKeyForbidden, false}
	case model.IsNotFound(err):
		return errorClass{http.StatusNotFound, dto.ErrCodeNotFound, i18n.ErrKeyNotFound, true}
	case errors.As(err, &insufficient):
		return errorClass{http.StatusConflict, dto.ErrCodeInsufficientStock, i18n.ErrKeyInsufficientStock, true}
	case errors.As(err, &oversell):
		return errorClass{http.StatusConflict, dto.ErrCodeOversell, i18n.ErrKeyOversell, true}
	case errors.Is(err, model.ErrRouteStarted):
		return errorClass{http.StatusConflict, dto.ErrCodeRouteStarted, i18n.ErrKeyRouteStarted, false}
	case errors.Is(err, model.ErrConcurrentUpdate):
		return errorClass{http.StatusConflict, dto.ErrCodeConcurrentUpdate, i18n.ErrKeyConcurrentUpdate, false}
	case errors.Is(err, model.ErrAssignmentInProgress):
		return errorClass{http.StatusConflict, dto.ErrCodeConflict, i18n.ErrKeyAssignmentInProgress, false}
	case model.IsConflict(err):
		return errorClass{http.StatusConflict, dto.ErrCodeConflict, i18n.ErrKeyConflict, true}
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return errorClass{http.StatusServiceUnavailable, dto.ErrCodeUnavailable, i18n.ErrKeyInternalError, false}
	case errors.Is(err, context.DeadlineExceeded):
		return errorClass{http.StatusGatewayTimeout, dto.ErrCodeTimeout, i18n.ErrKeyTimeout, false}
	default:
		return errorClass{http.StatusInternalServerError, dto.ErrCodeInternal, i18n.ErrKeyInternalError, false}
	}
}

// errorDetails extracts the structured fields clients show next to the message.
func errorDetails(err error) map[string]string {
	var validation *model.ValidationError
	if errors.As(err, &validation) {
		return map[string]string{"field": validation.Field}
	}

	shortfalls := collectShortfalls(err)
	if len(shortfalls) > 0 {
		first := shortfalls[0]
		ids := make([]string, 0, len(shortfalls))
		for _, s := range shortfalls {
			ids = append(ids, s.ProductID)
		}
		return map[string]string{
			"product_id":      first.ProductID,
			"product_name":    first.ProductName,
			"shortfall_boxes": strconv.Itoa(first.Shortfall.BoxQty),
			"shortfall_pcs":   strconv.Itoa(first.Shortfall.PcsQty),
			"products":        strings.Join(ids, ","),
		}
	}

	var oversell *model.OversellError
	if errors.As(err, &oversell) {
		return map[string]string{
			"product_id":      oversell.ProductID,
			"product_name":    oversell.ProductName,
			"available_boxes": strconv.Itoa(oversell.Available.BoxQty),
			"available_pcs":   strconv.Itoa(oversell.Available.PcsQty),
		}
	}
	return nil
}

// collectShortfalls walks joined and wrapped errors in order.
func collectShortfalls(err error) []*model.InsufficientStockError {
	var out []*model.InsufficientStockError
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if s, ok := e.(*model.InsufficientStockError); ok {
			out = append(out, s)
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return out
}

// ErrorHandler returns a middleware that answers the last error a handler attached
// with c.Error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		requestID := GetRequestID(c)
		locale := i18n.GetLocale(c)
		class := classify(err)

		log := logger.Logger()
		event := log.Warn()
		if class.status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("request_id", requestID).
			Str("error", err.Error()).
			Int("status_code", class.status).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("Request error")

		if c.Writer.Written() {
			return
		}
		message := i18n.GetTranslator().Translate(class.key, locale)
		if class.exposed {
			message = err.Error()
		}
		errorResp := dto.NewError(class.code, message).WithRequestID(requestID)
		if details := errorDetails(err); details != nil {
			errorResp = errorResp.WithDetails(details)
		}
		c.AbortWithStatusJSON(class.status, errorResp)
	}
}
