package model

import "time"

// LogEntry is a persisted request or audit record.
type LogEntry struct {
	ID         string                 `json:"id"`
	Timestamp  time.Time              `json:"timestamp"`
	Level      string                 `json:"level"`
	Message    string                 `json:"message"`
	RequestID  string                 `json:"request_id,omitempty"`
	Method     string                 `json:"method,omitempty"`
	Path       string                 `json:"path,omitempty"`
	StatusCode int                    `json:"status_code,omitempty"`
	Duration   int64                  `json:"duration_ms,omitempty"`
	IP         string                 `json:"ip,omitempty"`
	UserAgent  string                 `json:"user_agent,omitempty"`
	Error      string                 `json:"error,omitempty"`
	UserID     string                 `json:"user_id,omitempty"`
	Role       string                 `json:"role,omitempty"`
	ActionType string                 `json:"action_type,omitempty"` // assign_stock, record_sale, receive_stock...
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

// WithField sets one context field, allocating Fields when needed.
func (e *LogEntry) WithField(key string, value interface{}) *LogEntry {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// LogQueryOptions filters persisted log entries.
type LogQueryOptions struct {
	RequestID  string
	Level      string
	ActionType string
	UserID     string
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int
	Skip       int
}
