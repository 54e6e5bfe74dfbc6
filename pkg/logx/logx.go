// Package logx is a leveled, structured logger with console and JSON output.
package logx

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents a logging level.
type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
	LevelOff
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	case LevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a string into a Level. Unknown strings map to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "FATAL":
		return LevelFatal
	case "OFF":
		return LevelOff
	default:
		return LevelInfo
	}
}

// Fields holds structured key/value pairs attached to a log entry.
type Fields map[string]interface{}

// Logger writes leveled log entries to an output.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	json   bool
	exitFn func(int)
}

// NewLogger creates a logger writing to out at the given level.
func NewLogger(out io.Writer, level Level, jsonFormat bool) *Logger {
	return &Logger{out: out, level: level, json: jsonFormat, exitFn: os.Exit}
}

// SetLevel changes the logger's minimum level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput changes the logger's destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

func (l *Logger) log(level Level, msg string, fields Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level || l.level == LevelOff {
		return
	}

	ts := time.Now().Format("2006-01-02 15:04:05")
	if l.json {
		fmt.Fprintln(l.out, formatJSON(ts, level, msg, fields))
	} else {
		fmt.Fprintln(l.out, formatConsole(ts, level, msg, fields))
	}

	if level == LevelFatal {
		l.exitFn(1)
	}
}

func formatConsole(ts string, level Level, msg string, fields Fields) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%-5s] %s", ts, level, msg)
	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, fields[k])
		}
	}
	return b.String()
}

// Entry is a log statement under construction, carrying accumulated fields.
type Entry struct {
	logger *Logger
	fields Fields
}

// WithFields returns an entry with the given fields attached.
func (l *Logger) WithFields(fields Fields) *Entry {
	copied := make(Fields, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return &Entry{logger: l, fields: copied}
}

// WithField returns an entry with a single field attached.
func (l *Logger) WithField(key string, value interface{}) *Entry {
	return l.WithFields(Fields{key: value})
}

// WithError returns an entry with the error attached under the "error" key.
func (l *Logger) WithError(err error) *Entry {
	return l.WithField("error", err)
}

// WithField adds another field to the entry.
func (e *Entry) WithField(key string, value interface{}) *Entry {
	e.fields[key] = value
	return e
}

// WithError adds the error to the entry under the "error" key.
func (e *Entry) WithError(err error) *Entry {
	return e.WithField("error", err)
}

func (e *Entry) Debug(msg string) { e.logger.log(LevelDebug, msg, e.fields) }
func (e *Entry) Info(msg string)  { e.logger.log(LevelInfo, msg, e.fields) }
func (e *Entry) Warn(msg string)  { e.logger.log(LevelWarn, msg, e.fields) }
func (e *Entry) Error(msg string) { e.logger.log(LevelError, msg, e.fields) }

func (e *Entry) Debugf(format string, args ...interface{}) {
	e.logger.log(LevelDebug, fmt.Sprintf(format, args...), e.fields)
}
func (e *Entry) Infof(format string, args ...interface{}) {
	e.logger.log(LevelInfo, fmt.Sprintf(format, args...), e.fields)
}
func (e *Entry) Warnf(format string, args ...interface{}) {
	e.logger.log(LevelWarn, fmt.Sprintf(format, args...), e.fields)
}
func (e *Entry) Errorf(format string, args ...interface{}) {
	e.logger.log(LevelError, fmt.Sprintf(format, args...), e.fields)
}
