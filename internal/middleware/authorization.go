package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/distribution-service/internal/domain/dto"
	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/guttosm/distribution-service/internal/i18n"
)

// RequireRole returns a middleware that only lets sessions with one of roles through.
// It must run after JWTSession or DevSession.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		locale := i18n.GetLocale(c)
		requestID := GetRequestID(c)

		session, ok := GetSession(c)
		if !ok {
			message := i18n.GetTranslator().Translate(i18n.ErrKeyUnauthorized, locale)
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewError(dto.ErrCodeUnauthorized, message).WithRequestID(requestID))
			return
		}

		if len(allowed) > 0 && !allowed[session.Role] {
			message := i18n.GetTranslator().Translate(i18n.ErrKeyForbidden, locale)
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewError(dto.ErrCodeForbidden, message).WithRequestID(requestID))
			return
		}

		c.Next()
	}
}
