package logger_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/efactura-reconciler/internal/logger"
)

func TestDefaultConfig(t *testing.T) {
	cfg := logger.DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := logger.New(logger.LogConfig{Level: "loud"})
	require.Error(t, err)
}

func TestNew_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := logger.New(logger.LogConfig{Level: "warn", Format: "json", Output: path})
	require.NoError(t, err)

	l.Info().Msg("dropped")
	l.Warn().Str("document", "FD-1").Msg("rounding mismatch")

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(content, &entry), "exactly one JSON line expected: %s", content)
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "FD-1", entry["document"])
	assert.Equal(t, "rounding mismatch", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestSetup(t *testing.T) {
	previous := log.Logger
	previousLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = previous
		zerolog.SetGlobalLevel(previousLevel)
	})

	path := filepath.Join(t.TempDir(), "global.log")
	require.NoError(t, logger.Setup(logger.LogConfig{Level: "debug", Format: "json", Output: path}))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	componentLog := logger.WithComponent("collector")
	componentLog.Debug().Msg("scan")
	requestLog := logger.WithRequestID("req-1")
	requestLog.Info().Msg("request")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"component":"collector"`)
	assert.Contains(t, string(content), `"request_id":"req-1"`)
}
