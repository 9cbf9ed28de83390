package http

import (
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/distribution-service/internal/domain/dto"
	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/guttosm/distribution-service/internal/middleware"
)

var successResponsePool = sync.Pool{
	New: func() interface{} {
		return &dto.SuccessResponse{}
	},
}

func getSuccessResponse() *dto.SuccessResponse {
	if resp, ok := successResponsePool.Get().(*dto.SuccessResponse); ok {
		return resp
	}
	return &dto.SuccessResponse{}
}

func putSuccessResponse(resp *dto.SuccessResponse) {
	resp.Data = nil
	resp.RequestID = ""
	resp.Timestamp = time.Time{}
	successResponsePool.Put(resp)
}

// ResponseBuilder writes the success envelope and hands errors to the error handler
// middleware.
type ResponseBuilder struct {
	c *gin.Context
}

// NewResponseBuilder creates a new response builder for the given context.
func NewResponseBuilder(c *gin.Context) *ResponseBuilder {
	return &ResponseBuilder{c: c}
}

// Success sends data wrapped in a SuccessResponse.
func (b *ResponseBuilder) Success(statusCode int, data interface{}) {
	resp := getSuccessResponse()
	resp.Data = data
	resp.RequestID = middleware.GetRequestID(b.c)
	resp.Timestamp = time.Now()

	// Gin serializes synchronously, so the response can go back to the pool.
	b.c.JSON(statusCode, resp)
	putSuccessResponse(resp)
}

// SuccessOK sends a 200 OK response with the given data.
func (b *ResponseBuilder) SuccessOK(data interface{}) {
	b.Success(http.StatusOK, data)
}

// SuccessCreated sends a 201 Created response with the given data.
func (b *ResponseBuilder) SuccessCreated(data interface{}) {
	b.Success(http.StatusCreated, data)
}

// Fail records err on the context and stops the chain. ErrorHandler writes the body.
func (b *ResponseBuilder) Fail(err error) {
	_ = b.c.Error(err)
	b.c.Abort()
}

// Validator is implemented by request DTOs that check their own fields.
type Validator interface {
	Validate() error
}

// BindJSON decodes the body into T. Decoding failures become validation errors on
// "body" so they are answered with 400.
func BindJSON[T any](c *gin.Context) (*T, error) {
	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, model.NewValidationError("body", bindMessage(err))
	}
	return &req, nil
}

// BindQuery decodes the query string into T.
func BindQuery[T any](c *gin.Context) (*T, error) {
	var req T
	if err := c.ShouldBindQuery(&req); err != nil {
		return nil, model.NewValidationError("query", bindMessage(err))
	}
	return &req, nil
}

// BuildRequestAndValidate binds the JSON body and runs Validate when T implements it.
func BuildRequestAndValidate[T any](c *gin.Context) (*T, error) {
	req, err := BindJSON[T](c)
	if err != nil {
		return nil, err
	}
	if v, ok := any(req).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func bindMessage(err error) string {
	if errors.Is(err, io.EOF) {
		return "request body is required"
	}
	return "malformed request: " + err.Error()
}
