package middleware

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// Compression returns a middleware that gzips responses for clients that accept it.
// Paths in excluded are sent as-is; the XLSX export is already a zip archive.
func Compression(excluded ...string) gin.HandlerFunc {
	if len(excluded) == 0 {
		return gzip.Gzip(gzip.DefaultCompression)
	}
	return gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths(excluded))
}
