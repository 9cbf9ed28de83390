package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/distribution-service/internal/domain/dto"
	"github.com/guttosm/distribution-service/internal/i18n"
	"github.com/guttosm/distribution-service/internal/service/cache"
)

const (
	// IdempotencyKeyHeader is the HTTP header name for idempotency key (RFC standard).
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the idempotency cache.
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// IdempotencyKeyTTL is the TTL for cached idempotency responses.
	IdempotencyKeyTTL = 10 * time.Minute
	// IdempotencyCacheSize bounds how many responses are kept.
	IdempotencyCacheSize = 10000
)

// CachedResponse is a stored response replayed for a repeated idempotency key.
type CachedResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
	BodyHash    string
}

// IdempotencyConfig holds configuration for idempotency middleware.
type IdempotencyConfig struct {
	Cache   cache.Cache[string, *CachedResponse]
	Enabled bool
}

// DefaultIdempotencyConfig returns default idempotency configuration.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		Cache:   cache.NewTTL[string, *CachedResponse](IdempotencyCacheSize, IdempotencyKeyTTL),
		Enabled: true,
	}
}

// Idempotency returns a middleware that replays the stored response when a POST, PUT
// or PATCH repeats an Idempotency-Key. Keys are scoped to the session user and route.
// Reusing a key with a different body is rejected with 422, and a repeat that arrives
// while the first request is still running gets 409.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.Cache == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	var mu sync.Mutex
	inFlight := make(map[string]struct{})

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		scope := scopeKey(c, key)
		bodyHash := hashBody(c.Request)

		if cached, ok := cfg.Cache.Get(scope); ok {
			if cached.BodyHash != bodyHash {
				abortIdempotency(c, http.StatusUnprocessableEntity, dto.ErrCodeInvalidRequest)
				return
			}
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(cached.StatusCode, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		mu.Lock()
		if _, busy := inFlight[scope]; busy {
			mu.Unlock()
			abortIdempotency(c, http.StatusConflict, dto.ErrCodeConflict)
			return
		}
		inFlight[scope] = struct{}{}
		mu.Unlock()
		defer func() {
			mu.Lock()
			delete(inFlight, scope)
			mu.Unlock()
		}()

		writer := &responseWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer

		c.Next()

		status := writer.Status()
		if status >= 200 && status < 300 {
			cfg.Cache.Set(scope, &CachedResponse{
				StatusCode:  status,
				ContentType: writer.Header().Get("Content-Type"),
				Body:        writer.body.Bytes(),
				BodyHash:    bodyHash,
			})
		}
	}
}

func abortIdempotency(c *gin.Context, status int, code string) {
	message := i18n.GetTranslator().Translate(i18n.ErrKeyIdempotencyConflict, i18n.GetLocale(c))
	c.AbortWithStatusJSON(status, dto.NewError(code, message).WithRequestID(GetRequestID(c)))
}

// scopeKey ties the client key to the caller and endpoint.
func scopeKey(c *gin.Context, key string) string {
	user := ""
	if session, ok := GetSession(c); ok {
		user = session.UserID
	}
	h := sha256.New()
	for _, part := range []string{user, c.Request.Method, c.Request.URL.Path, key} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// hashBody hashes the request body and puts it back for the handler.
func hashBody(req *http.Request) string {
	h := sha256.New()
	if req.Body != nil {
		bodyBytes, _ := io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		h.Write(bodyBytes)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// responseWriter captures the response for caching.
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
