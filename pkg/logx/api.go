package logx

import (
	"fmt"
	"os"
)

// defaultLogger is the process-wide logger, configured from the environment:
// LOG_LEVEL selects the level, LOG_FORMAT=json switches to JSON output.
var defaultLogger = NewLogger(os.Stdout, ParseLevel(os.Getenv("LOG_LEVEL")), os.Getenv("LOG_FORMAT") == "json")

// SetDefaultLogger replaces the global logger.
func SetDefaultLogger(l *Logger) { defaultLogger = l }

// GetDefaultLogger returns the global logger.
func GetDefaultLogger() *Logger { return defaultLogger }

// SetLevel sets the level of the global logger.
func SetLevel(level Level) { defaultLogger.SetLevel(level) }

// Debug logs a debug level message.
func Debug(msg string) { defaultLogger.log(LevelDebug, msg, nil) }

// Info logs an info level message.
func Info(msg string) { defaultLogger.log(LevelInfo, msg, nil) }

// Warn logs a warning level message.
func Warn(msg string) { defaultLogger.log(LevelWarn, msg, nil) }

// Error logs an error level message.
func Error(msg string) { defaultLogger.log(LevelError, msg, nil) }

// Fatal logs a fatal message and exits.
func Fatal(msg string) { defaultLogger.log(LevelFatal, msg, nil) }

// Debugf logs a formatted debug message.
func Debugf(format string, args ...interface{}) {
	defaultLogger.log(LevelDebug, fmt.Sprintf(format, args...), nil)
}

// Infof logs a formatted info message.
func Infof(format string, args ...interface{}) {
	defaultLogger.log(LevelInfo, fmt.Sprintf(format, args...), nil)
}

// Warnf logs a formatted warning message.
func Warnf(format string, args ...interface{}) {
	defaultLogger.log(LevelWarn, fmt.Sprintf(format, args...), nil)
}

// Errorf logs a formatted error message.
func Errorf(format string, args ...interface{}) {
	defaultLogger.log(LevelError, fmt.Sprintf(format, args...), nil)
}

// Fatalf logs a formatted fatal message and exits.
func Fatalf(format string, args ...interface{}) {
	defaultLogger.log(LevelFatal, fmt.Sprintf(format, args...), nil)
}

// WithFields creates an entry on the global logger with fields.
func WithFields(fields Fields) *Entry { return defaultLogger.WithFields(fields) }

// WithField creates an entry on the global logger with a single field.
func WithField(key string, value interface{}) *Entry { return defaultLogger.WithField(key, value) }

// WithError creates an entry on the global logger with an error field.
func WithError(err error) *Entry { return defaultLogger.WithError(err) }
