// Package logger provides the process-wide structured logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger is the shared logger instance.
var Logger = log.New(os.Stderr)

func init() {
	Logger.SetLevel(log.WarnLevel)
}

// Configure sets level and destination. CLI flags take precedence over
// environment variables, handled by the caller passing the merged level.
func Configure(level string, output io.Writer) {
	if output != nil {
		Logger = log.New(output)
	}
	Logger.SetLevel(parseLevel(level))
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

// Debug logs a debug message with key-value pairs.
func Debug(msg string, kv ...any) { Logger.Debug(msg, kv...) }

// Info logs an info message with key-value pairs.
func Info(msg string, kv ...any) { Logger.Info(msg, kv...) }

// Warn logs a warning with key-value pairs.
func Warn(msg string, kv ...any) { Logger.Warn(msg, kv...) }

// Error logs an error with key-value pairs.
func Error(msg string, kv ...any) { Logger.Error(msg, kv...) }
