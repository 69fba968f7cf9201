package adapters

import (
	"bytes"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	fn()
	return buf.String()
}

func TestPrintLoggerAdapter(t *testing.T) {
	t.Run("should create logger with debug level", func(t *testing.T) {
		logger := NewPrintLoggerAdapter(LogLevelDebug)
		assert.Equal(t, LogLevelDebug, logger.level)
	})

	t.Run("should log every level when level is debug", func(t *testing.T) {
		logger := NewPrintLoggerAdapter(LogLevelDebug)
		out := captureLog(t, func() {
			logger.Debug("debug %s", "a")
			logger.Info("info %s", "b")
			logger.Warn("warn %s", "c")
			logger.Error("error %s", "d")
		})
		assert.Contains(t, out, "[DEBUG] [HitProxy] debug a")
		assert.Contains(t, out, "[INFO] [HitProxy] info b")
		assert.Contains(t, out, "[WARN] [HitProxy] warn c")
		assert.Contains(t, out, "[ERROR] [HitProxy] error d")
	})

	t.Run("should respect log levels", func(t *testing.T) {
		logger := NewPrintLoggerAdapter(LogLevelError)
		out := captureLog(t, func() {
			logger.Debug("debug")
			logger.Info("info")
			logger.Warn("warn")
			logger.Error("error")
		})
		assert.NotContains(t, out, "[DEBUG]")
		assert.NotContains(t, out, "[INFO]")
		assert.NotContains(t, out, "[WARN]")
		assert.Contains(t, out, "[ERROR]")
	})

	t.Run("should handle none level", func(t *testing.T) {
		logger := NewPrintLoggerAdapter(LogLevelNone)
		out := captureLog(t, func() {
			logger.Debug("debug")
			logger.Error("error")
		})
		assert.Empty(t, out)
	})
}

func TestLogLevel_Valid(t *testing.T) {
	assert.True(t, LogLevelWarn.Valid())
	assert.False(t, LogLevel("LOUD").Valid())
}

func TestKlogLoggerAdapter(t *testing.T) {
	logger := NewKlogLoggerAdapter(4)
	logger.Debug("debug %d", 1)
	logger.Info("info %d", 2)
	logger.Warn("warn %d", 3)
	logger.Error("error %d", 4)
}
