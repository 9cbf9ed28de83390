package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/distribution-service/internal/domain/dto"
	"github.com/guttosm/distribution-service/internal/i18n"
	"github.com/guttosm/distribution-service/internal/logger"
)

// Recovery turns a panic in a stock, sale or report handler into a 500 envelope in the
// caller's locale. The stack is logged under the request id; it never reaches the body.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			requestID := GetRequestID(c)
			log := logger.Logger()
			log.Error().
				Str("request_id", requestID).
				Str("method", c.Request.Method).
				Str("route", c.FullPath()).
				Str("path", c.Request.URL.Path).
				Interface("panic", recovered).
				Bytes("stack", debug.Stack()).
				Msg("Recovered from panic")

			message := i18n.GetTranslator().Translate(i18n.ErrKeyInternalError, i18n.GetLocale(c))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewError(dto.ErrCodeInternal, message).WithRequestID(requestID))
		}()
		c.Next()
	}
}
