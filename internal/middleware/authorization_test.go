package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
)

func withSession(session *model.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session != nil {
			c.Set(string(SessionKey), *session)
		}
		c.Next()
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	admin := &model.Session{UserID: "admin-1", Role: model.RoleAdmin}
	driver := &model.Session{UserID: "driver-1", Role: model.RoleDriver}

	tests := []struct {
		name           string
		session        *model.Session
		roles          []model.Role
		expectedStatus int
	}{
		{name: "admin allowed", session: admin, roles: []model.Role{model.RoleAdmin}, expectedStatus: http.StatusOK},
		{name: "driver rejected from admin route", session: driver, roles: []model.Role{model.RoleAdmin}, expectedStatus: http.StatusForbidden},
		{name: "either role", session: driver, roles: []model.Role{model.RoleAdmin, model.RoleDriver}, expectedStatus: http.StatusOK},
		{name: "no roles means any session", session: driver, expectedStatus: http.StatusOK},
		{name: "no session", roles: []model.Role{model.RoleAdmin}, expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(withSession(tt.session), RequireRole(tt.roles...))
			router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusForbidden {
				assert.Contains(t, w.Body.String(), `"error":"forbidden"`)
			}
		})
	}
}
