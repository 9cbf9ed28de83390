package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/distribution-service/internal/domain/dto"
	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/guttosm/distribution-service/internal/i18n"
)

// SessionKey is the context key under which the caller's session is stored.
const SessionKey ContextKey = "session"

// DevUserID is the user id of the session used when authentication is disabled.
const DevUserID = "dev"

// SessionVerifier turns a bearer token into a session.
type SessionVerifier interface {
	Verify(token string) (model.Session, error)
}

// JWTSession returns a middleware that validates the bearer token and stores the
// session it carries in the context.
func JWTSession(verifier SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := i18n.GetLocale(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, i18n.ErrKeyTokenRequired, locale)
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, i18n.ErrKeyInvalidToken, locale)
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			abortUnauthorized(c, i18n.ErrKeyTokenRequired, locale)
			return
		}

		session, err := verifier.Verify(tokenString)
		if err != nil {
			abortUnauthorized(c, i18n.ErrKeyInvalidToken, locale)
			return
		}

		c.Set(string(SessionKey), session)
		c.Next()
	}
}

// DevSession returns a middleware that runs every request as an admin. It is only
// installed when authentication is disabled.
func DevSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(string(SessionKey), model.Session{UserID: DevUserID, Role: model.RoleAdmin})
		c.Next()
	}
}

// GetSession returns the session stored by JWTSession or DevSession.
func GetSession(c *gin.Context) (model.Session, bool) {
	v, exists := c.Get(string(SessionKey))
	if !exists {
		return model.Session{}, false
	}
	session, ok := v.(model.Session)
	return session, ok
}

func abortUnauthorized(c *gin.Context, key, locale string) {
	message := i18n.GetTranslator().Translate(key, locale)
	errorResp := dto.NewError(dto.ErrCodeUnauthorized, message).
		WithRequestID(GetRequestID(c))
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorResp)
}
