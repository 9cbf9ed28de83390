package middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/guttosm/distribution-service/internal/logger"
	"github.com/guttosm/distribution-service/internal/metrics"
	"github.com/guttosm/distribution-service/internal/service"
)

// AsyncLoggerConfig holds configuration for the async logger.
type AsyncLoggerConfig struct {
	// BufferSize is the size of the log entry channel buffer.
	BufferSize int
	// NumWorkers is the number of worker goroutines processing logs.
	NumWorkers int
	// WriteTimeout is the timeout for writing a log entry to the database.
	WriteTimeout time.Duration
	// BatchSize is how many entries a worker collects before writing them in one call.
	// Values below 2 write every entry on its own.
	BatchSize int
	// FlushInterval bounds how long a partial batch waits.
	FlushInterval time.Duration
}

// DefaultAsyncLoggerConfig returns sensible defaults for the async logger.
func DefaultAsyncLoggerConfig() AsyncLoggerConfig {
	return AsyncLoggerConfig{
		BufferSize:    1000,
		NumWorkers:    4,
		WriteTimeout:  5 * time.Second,
		BatchSize:     50,
		FlushInterval: time.Second,
	}
}

// AsyncLogger provides buffered, worker-pool based async logging.
// This prevents unbounded goroutine creation under high load.
type AsyncLogger struct {
	loggingService service.LoggingService
	entryCh        chan *model.LogEntry
	wg             sync.WaitGroup
	stopCh         chan struct{}
	writeTimeout   time.Duration
	batchSize      int
	flushInterval  time.Duration

	// Metrics
	enqueued int64
	dropped  int64
	written  int64
	errors   int64
}

// NewAsyncLogger creates a new async logger with the given configuration.
func NewAsyncLogger(loggingService service.LoggingService, cfg AsyncLoggerConfig) *AsyncLogger {
	if loggingService == nil {
		return nil
	}

	al := &AsyncLogger{
		loggingService: loggingService,
		entryCh:        make(chan *model.LogEntry, cfg.BufferSize),
		stopCh:         make(chan struct{}),
		writeTimeout:   cfg.WriteTimeout,
		batchSize:      max(cfg.BatchSize, 1),
		flushInterval:  cfg.FlushInterval,
	}
	if al.flushInterval <= 0 {
		al.flushInterval = time.Second
	}

	// Start worker pool
	for i := 0; i < cfg.NumWorkers; i++ {
		al.wg.Add(1)
		go al.worker()
	}

	return al
}

// worker collects entries from the channel and writes them in batches.
func (al *AsyncLogger) worker() {
	defer al.wg.Done()

	var batch []*model.LogEntry
	flush := func() {
		if len(batch) > 0 {
			al.writeBatch(batch)
			batch = nil
		}
	}
	add := func(entry *model.LogEntry) {
		batch = append(batch, entry)
		if len(batch) >= al.batchSize {
			flush()
		}
	}

	var tick <-chan time.Time
	if al.batchSize > 1 {
		ticker := time.NewTicker(al.flushInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case entry, ok := <-al.entryCh:
			if !ok {
				flush()
				return
			}
			add(entry)
		case <-tick:
			flush()
		case <-al.stopCh:
			for {
				select {
				case entry := <-al.entryCh:
					add(entry)
				default:
					flush()
					return
				}
			}
		}
	}
}

// writeBatch stores entries, using the single-entry call for a batch of one.
func (al *AsyncLogger) writeBatch(entries []*model.LogEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), al.writeTimeout)
	defer cancel()

	var err error
	if len(entries) == 1 {
		err = al.loggingService.CreateLog(ctx, entries[0])
	} else {
		err = al.loggingService.CreateLogs(ctx, entries)
	}
	n := int64(len(entries))
	if err != nil {
		atomic.AddInt64(&al.errors, n)
		log := logger.Logger()
		log.Warn().Err(err).Int64("entries", n).Msg("Failed to write async log entries")
		return
	}
	atomic.AddInt64(&al.written, n)
}

// Log enqueues a log entry for async processing.
// Returns true if the entry was enqueued, false if the buffer is full.
func (al *AsyncLogger) Log(entry *model.LogEntry) bool {
	select {
	case al.entryCh <- entry:
		atomic.AddInt64(&al.enqueued, 1)
		return true
	default:
		atomic.AddInt64(&al.dropped, 1)
		metrics.RecordLogDropped()
		return false
	}
}

// Stop gracefully shuts down the async logger.
// It waits for all pending entries to be processed.
func (al *AsyncLogger) Stop() {
	close(al.stopCh)
	al.wg.Wait()
	close(al.entryCh)
}

// Stats returns current async logger statistics.
func (al *AsyncLogger) Stats() (enqueued, dropped, written, errors int64) {
	return atomic.LoadInt64(&al.enqueued),
		atomic.LoadInt64(&al.dropped),
		atomic.LoadInt64(&al.written),
		atomic.LoadInt64(&al.errors)
}

// globalAsyncLogger is the singleton async logger instance.
var (
	globalAsyncLogger   *AsyncLogger
	globalAsyncLoggerMu sync.RWMutex
)

// InitAsyncLogger initializes the global async logger.
// Should be called once during application startup.
func InitAsyncLogger(loggingService service.LoggingService, cfg AsyncLoggerConfig) {
	globalAsyncLoggerMu.Lock()
	defer globalAsyncLoggerMu.Unlock()

	if globalAsyncLogger != nil {
		globalAsyncLogger.Stop()
	}
	globalAsyncLogger = NewAsyncLogger(loggingService, cfg)
}

// GetAsyncLogger returns the global async logger instance.
func GetAsyncLogger() *AsyncLogger {
	globalAsyncLoggerMu.RLock()
	defer globalAsyncLoggerMu.RUnlock()
	return globalAsyncLogger
}

// StopAsyncLogger gracefully shuts down the global async logger.
func StopAsyncLogger() {
	globalAsyncLoggerMu.Lock()
	defer globalAsyncLoggerMu.Unlock()

	if globalAsyncLogger != nil {
		globalAsyncLogger.Stop()
		globalAsyncLogger = nil
	}
}
