package main

import (
	"os"
	"path/filepath"
	"testing"

	"behancedl/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLoggingDefaultsToErrorsBehindBars(t *testing.T) {
	cfg := config.DefaultConfig()

	assert.Equal(t, "error", runLogging(cfg, false).Level)
	assert.Equal(t, "info", runLogging(cfg, true).Level)
	assert.Equal(t, "info", cfg.Logging.Level, "the loaded config must not change")
}

func TestRunLoggingKeepsConfiguredLevel(t *testing.T) {
	t.Setenv("BEHANCEDL_LOG_LEVEL", "")
	path := filepath.Join(t.TempDir(), "behancedl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0644))

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "debug", runLogging(cfg, false).Level)
}

func TestRunLoggingKeepsEnvironmentLevel(t *testing.T) {
	t.Setenv("BEHANCEDL_LOG_LEVEL", "warn")
	path := filepath.Join(t.TempDir(), "behancedl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  directory: ./out\n"), 0644))

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "warn", runLogging(cfg, false).Level)
}
