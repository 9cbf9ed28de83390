// Package app provides logger initialization.
package app

import (
	"io"

	"github.com/guttosm/distribution-service/config"
	"github.com/guttosm/distribution-service/internal/logger"
)

// InitializeLogger configures the global logger. The returned closer is nil unless a
// log file is written.
func InitializeLogger(cfg config.LogConfig) io.Closer {
	return logger.Init(logger.Options{
		Level:      cfg.Level,
		Pretty:     cfg.Pretty,
		File:       cfg.File,
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAgeDays: cfg.MaxAgeDays,
	})
}
