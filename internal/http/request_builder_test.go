package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/distribution-service/internal/domain/dto"
	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestBuildRequestAndValidate(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
		wantMsg   string
	}{
		{name: "valid", body: `{"name":"North loop"}`},
		{name: "empty body", body: "", wantField: "body", wantMsg: "request body is required"},
		{name: "malformed", body: `{"name":`, wantField: "body"},
		{name: "rule failure", body: `{"id":"north-1"}`, wantField: "name", wantMsg: "is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newJSONContext(tt.body)

			req, err := BuildRequestAndValidate[dto.RouteRequest](c)

			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, "North loop", req.Name)
				return
			}
			var validation *model.ValidationError
			require.True(t, errors.As(err, &validation))
			assert.Equal(t, tt.wantField, validation.Field)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, validation.Message)
			}
		})
	}
}

func TestBindQuery_InvalidNumber(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?limit=abc", nil)

	_, err := BindQuery[dto.MovementsQuery](c)

	assert.True(t, model.IsValidation(err))
}

func TestResponseBuilder(t *testing.T) {
	t.Run("success envelope", func(t *testing.T) {
		c, w := newJSONContext("")

		NewResponseBuilder(c).SuccessCreated(map[string]string{"id": "north-1"})

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp struct {
			Data map[string]string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "north-1", resp.Data["id"])
	})

	t.Run("fail defers to the error handler", func(t *testing.T) {
		c, w := newJSONContext("")

		NewResponseBuilder(c).Fail(model.ErrRouteNotFound)

		assert.True(t, c.IsAborted())
		require.Len(t, c.Errors, 1)
		assert.ErrorIs(t, c.Errors.Last().Err, model.ErrRouteNotFound)
		assert.Equal(t, 0, w.Body.Len())
	})
}
