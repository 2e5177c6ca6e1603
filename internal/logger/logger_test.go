package logger_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/peczenyj/bpool/internal/logger"
)

func TestNewInvalidLevel(t *testing.T) {
	t.Parallel()

	cfg := logger.DefaultConfig()
	cfg.Level = "loud"

	log, err := logger.New(cfg)
	require.Error(t, err)
	assert.Nil(t, log)
}

func TestNewWritesJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.log")

	log, err := logger.New(logger.Config{
		Level:       "debug",
		OutputPaths: []string{path},
	})
	require.NoError(t, err)

	log.Debug("pool exhausted")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"pool exhausted"`)
	assert.Contains(t, string(data), `"level":"debug"`)
}

func TestNewDevelopment(t *testing.T) {
	t.Parallel()

	log, err := logger.New(logger.Config{
		Level:       "warn",
		Development: true,
		Encoding:    "console",
		OutputPaths: []string{filepath.Join(t.TempDir(), "dev.log")},
	})
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNewKeepsRepeatedEntries(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.log")

	log, err := logger.New(logger.Config{Level: "debug", OutputPaths: []string{path}})
	require.NoError(t, err)

	for i := 0; i < 250; i++ {
		log.Debug("pool exhausted")
	}

	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 250, strings.Count(string(data), "\n"))
}
