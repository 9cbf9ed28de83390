package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogEntry_WithField(t *testing.T) {
	tests := []struct {
		name   string
		entry  *LogEntry
		key    string
		value  interface{}
		verify func(*testing.T, *LogEntry)
	}{
		{
			name:  "allocates fields on nil map",
			entry: &LogEntry{ActionType: "assign_stock"},
			key:   "route_id",
			value: "north-1",
			verify: func(t *testing.T, e *LogEntry) {
				assert.Equal(t, "north-1", e.Fields["route_id"])
			},
		},
		{
			name:  "keeps existing fields",
			entry: &LogEntry{Fields: map[string]interface{}{"date": "2026-10-14"}},
			key:   "route_id",
			value: "north-1",
			verify: func(t *testing.T, e *LogEntry) {
				assert.Equal(t, "2026-10-14", e.Fields["date"])
				assert.Equal(t, "north-1", e.Fields["route_id"])
			},
		},
		{
			name:  "overwrites a field",
			entry: &LogEntry{Fields: map[string]interface{}{"delta": 1}},
			key:   "delta",
			value: -48,
			verify: func(t *testing.T, e *LogEntry) {
				assert.Equal(t, -48, e.Fields["delta"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.entry.WithField(tt.key, tt.value)
			assert.Same(t, tt.entry, result)
			tt.verify(t, result)
		})
	}
}
