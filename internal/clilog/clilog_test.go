package clilog_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"cloudeng.io/cmdutil"
	"github.com/tomerfiliba/argbind/env"
	"github.com/tomerfiliba/argbind/internal/clilog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := clilog.Load(env.FromMap(nil))
	require.NoError(t, err)
	assert.Equal(t, cmdutil.LoggingConfig{Level: 0, Format: "text"}, cfg)
}

func TestNewWritesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "argbind.log")
	logger, err := clilog.New(env.FromMap(map[string]string{
		"ARGBIND_LOG_LEVEL":  "3",
		"ARGBIND_LOG_FORMAT": "json",
		"ARGBIND_LOG_FILE":   file,
	}))
	require.NoError(t, err)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	logger.Debug("hello", "n", 1)
	require.NoError(t, logger.Close())

	buf, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(buf), `"msg":"hello"`)
}

func TestNewErrors(t *testing.T) {
	_, err := clilog.New(env.FromMap(map[string]string{"ARGBIND_LOG_LEVEL": "loud"}))
	assert.ErrorContains(t, err, "parsing ARGBIND_LOG_LEVEL")

	_, err = clilog.New(env.FromMap(map[string]string{"ARGBIND_LOG_FORMAT": "xml"}))
	assert.ErrorContains(t, err, `unknown log format "xml"`)
}
