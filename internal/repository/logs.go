package repository

import (
	"context"
	"time"

	"github.com/guttosm/distribution-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// logEntryDocument is the MongoDB layout of a log entry.
type logEntryDocument struct {
	ID         primitive.ObjectID     `bson:"_id,omitempty"`
	Timestamp  time.Time              `bson:"timestamp"`
	Level      string                 `bson:"level"`
	Message    string                 `bson:"message"`
	RequestID  string                 `bson:"request_id,omitempty"`
	Method     string                 `bson:"method,omitempty"`
	Path       string                 `bson:"path,omitempty"`
	StatusCode int                    `bson:"status_code,omitempty"`
	Duration   int64                  `bson:"duration_ms,omitempty"`
	IP         string                 `bson:"ip,omitempty"`
	UserAgent  string                 `bson:"user_agent,omitempty"`
	Error      string                 `bson:"error,omitempty"`
	UserID     string                 `bson:"user_id,omitempty"`
	Role       string                 `bson:"role,omitempty"`
	ActionType string                 `bson:"action_type,omitempty"`
	Fields     map[string]interface{} `bson:"fields,omitempty"`
}

func newLogEntryDocument(e *model.LogEntry) *logEntryDocument {
	doc := &logEntryDocument{
		Timestamp:  e.Timestamp,
		Level:      e.Level,
		Message:    e.Message,
		RequestID:  e.RequestID,
		Method:     e.Method,
		Path:       e.Path,
		StatusCode: e.StatusCode,
		Duration:   e.Duration,
		IP:         e.IP,
		UserAgent:  e.UserAgent,
		Error:      e.Error,
		UserID:     e.UserID,
		Role:       e.Role,
		ActionType: e.ActionType,
		Fields:     e.Fields,
	}
	if id, err := primitive.ObjectIDFromHex(e.ID); err == nil {
		doc.ID = id
	} else {
		doc.ID = primitive.NewObjectID()
	}
	if doc.Timestamp.IsZero() {
		doc.Timestamp = time.Now().UTC()
	}
	return doc
}

func (d *logEntryDocument) toModel() *model.LogEntry {
	return &model.LogEntry{
		ID:         d.ID.Hex(),
		Timestamp:  d.Timestamp,
		Level:      d.Level,
		Message:    d.Message,
		RequestID:  d.RequestID,
		Method:     d.Method,
		Path:       d.Path,
		StatusCode: d.StatusCode,
		Duration:   d.Duration,
		IP:         d.IP,
		UserAgent:  d.UserAgent,
		Error:      d.Error,
		UserID:     d.UserID,
		Role:       d.Role,
		ActionType: d.ActionType,
		Fields:     d.Fields,
	}
}

// LogsRepository persists request and audit log entries.
type LogsRepository struct {
	collection *mongo.Collection
}

// NewLogsRepository creates a new logs repository.
func NewLogsRepository(db *MongoDB) *LogsRepository {
	return &LogsRepository{
		collection: db.Logs,
	}
}

// Create inserts a new log entry. The entry's ID is filled in.
func (r *LogsRepository) Create(ctx context.Context, entry *model.LogEntry) error {
	doc := newLogEntryDocument(entry)
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	entry.ID = doc.ID.Hex()
	return nil
}

// CreateMany inserts multiple log entries in bulk.
func (r *LogsRepository) CreateMany(ctx context.Context, entries []*model.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	docs := make([]interface{}, len(entries))
	for i, entry := range entries {
		doc := newLogEntryDocument(entry)
		entry.ID = doc.ID.Hex()
		docs[i] = doc
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func logsFilter(opts model.LogQueryOptions) bson.M {
	filter := bson.M{}

	if opts.RequestID != "" {
		filter["request_id"] = opts.RequestID
	}
	if opts.Level != "" {
		filter["level"] = opts.Level
	}
	if opts.ActionType != "" {
		filter["action_type"] = opts.ActionType
	}
	if opts.UserID != "" {
		filter["user_id"] = opts.UserID
	}
	if opts.StartTime != nil || opts.EndTime != nil {
		timeFilter := bson.M{}
		if opts.StartTime != nil {
			timeFilter["$gte"] = *opts.StartTime
		}
		if opts.EndTime != nil {
			timeFilter["$lte"] = *opts.EndTime
		}
		filter["timestamp"] = timeFilter
	}
	return filter
}

// Query returns entries matching opts, newest first.
func (r *LogsRepository) Query(ctx context.Context, opts model.LogQueryOptions) ([]*model.LogEntry, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if opts.Limit > 0 {
		findOptions.SetLimit(int64(opts.Limit))
	}
	if opts.Skip > 0 {
		findOptions.SetSkip(int64(opts.Skip))
	}

	cursor, err := r.collection.Find(ctx, logsFilter(opts), findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []logEntryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	entries := make([]*model.LogEntry, 0, len(docs))
	for i := range docs {
		entries = append(entries, docs[i].toModel())
	}
	return entries, nil
}

// Count returns the number of entries matching opts.
func (r *LogsRepository) Count(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	return r.collection.CountDocuments(ctx, logsFilter(opts))
}
