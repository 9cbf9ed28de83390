package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/guttosm/distribution-service/internal/service"
)

// Audit action types stored in log entries.
const (
	ActionAssignStock   = "assign_stock"
	ActionClaimRoute    = "claim_route"
	ActionReturnStock   = "return_stock"
	ActionRecordSale    = "record_sale"
	ActionReceiveStock  = "receive_stock"
	ActionAdjustStock   = "adjust_stock"
	ActionCreateProduct = "create_product"
	ActionUpdateProduct = "update_product"
	ActionCreateRoute   = "create_route"
)

// AuditLog records a state-changing action for audit purposes.
func AuditLog(loggingService service.LoggingService, c *gin.Context, actionType string, message string, fields map[string]interface{}) {
	if loggingService == nil {
		return
	}
	entry := requestEntry(c, "info", message)
	entry.ActionType = actionType
	entry.Fields = fields
	dispatch(loggingService, entry)
}

// AuditLogError records a failed action for audit purposes.
func AuditLogError(loggingService service.LoggingService, c *gin.Context, actionType string, message string, err error, fields map[string]interface{}) {
	if loggingService == nil {
		return
	}
	entry := requestEntry(c, "error", message)
	entry.ActionType = actionType
	entry.Fields = fields
	if err != nil {
		entry.Error = err.Error()
	}
	dispatch(loggingService, entry)
}

// requestEntry builds a log entry with the request and session details filled in.
func requestEntry(c *gin.Context, level, message string) *model.LogEntry {
	entry := &model.LogEntry{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
		RequestID: GetRequestID(c),
		Method:    c.Request.Method,
		Path:      c.Request.URL.Path,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if session, ok := GetSession(c); ok {
		entry.UserID = session.UserID
		entry.Role = string(session.Role)
	}
	return entry
}

// dispatch hands entry to the async logger, or to a short-lived goroutine when the
// pool is not running.
func dispatch(loggingService service.LoggingService, entry *model.LogEntry) {
	if asyncLogger := GetAsyncLogger(); asyncLogger != nil {
		asyncLogger.Log(entry)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = loggingService.CreateLog(ctx, entry)
	}()
}
