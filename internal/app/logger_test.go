//go:build !integration

package app

import (
	"path/filepath"
	"testing"

	"github.com/guttosm/distribution-service/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeLogger(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	tests := []struct {
		name      string
		cfg       config.LogConfig
		wantLevel zerolog.Level
		wantFile  bool
	}{
		{
			name:      "default level",
			cfg:       config.LogConfig{},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name:      "pretty debug output",
			cfg:       config.LogConfig{Level: "debug", Pretty: true},
			wantLevel: zerolog.DebugLevel,
		},
		{
			name:      "rotating file",
			cfg:       config.LogConfig{Level: "warn", MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1},
			wantLevel: zerolog.WarnLevel,
			wantFile:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if tt.wantFile {
				cfg.File = filepath.Join(t.TempDir(), "service.log")
			}

			closer := InitializeLogger(cfg)

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())
			if !tt.wantFile {
				assert.Nil(t, closer)
				return
			}
			require.NotNil(t, closer)
			log.Warn().Msg("written to file")
			assert.FileExists(t, cfg.File)
			assert.NoError(t, closer.Close())
		})
	}
}
