package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesProcessLogFile(t *testing.T) {
	dir := t.TempDir()

	log := New("info", "development", dir)
	log.Info("logger smoke test", "component", "test")

	path := filepath.Join(dir, fmt.Sprintf("arlet_%d.log", os.Getpid()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "logger smoke test")
	assert.Contains(t, string(data), "component")
}

func TestNewRespectsLevel(t *testing.T) {
	dir := t.TempDir()

	log := New("warn", "development", dir)
	log.Info("filtered out")
	log.Warn("kept")

	path := filepath.Join(dir, fmt.Sprintf("arlet_%d.log", os.Getpid()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "filtered out")
	assert.Contains(t, string(data), "kept")
}

func TestNewUnwritableDirFallsBackToConsole(t *testing.T) {
	// A regular file where the log directory should be makes MkdirAll fail
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	log := New("info", "development", filepath.Join(blocker, "logs"))
	require.NotNil(t, log)
	log.Info("console only")
}

func TestNewUnknownLevelDefaultsToInfo(t *testing.T) {
	dir := t.TempDir()

	log := New("verbose", "development", dir)
	log.Info("visible at info")
	log.Debug("hidden at info")

	path := filepath.Join(dir, fmt.Sprintf("arlet_%d.log", os.Getpid()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible at info")
	assert.NotContains(t, string(data), "hidden at info")
}
