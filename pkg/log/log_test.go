package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestGetLoggerBeforeInitIsNop(t *testing.T) {
	// must not panic
	GetLogger().Infow("dropped", "k", "v")
}

func TestInitFileOutput(t *testing.T) {
	dir := t.TempDir()
	err := Init(&Conf{Output: "file", Path: dir, Filename: "test.log", Level: "DEBUG"})
	require.NoError(t, err)

	GetLogger().Debugw("hello", "k", "v")
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestInitFileWithoutPathFails(t *testing.T) {
	err := Init(&Conf{Output: "file"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel(" WARN "))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}
