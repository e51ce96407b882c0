package logging

import (
	"io"
	"strings"
	"sync"
	"time"
)

// Level orders log severity. Lines below the logger's level are dropped.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levelNames = map[Level]string{
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseLevel accepts a --log-level or LOG_LEVEL value in any case.
// Anything unrecognised, including "", is InfoLevel.
func ParseLevel(s string) Level {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "WARNING" {
		return WarnLevel
	}
	for level, name := range levelNames {
		if name == s {
			return level
		}
	}
	return InfoLevel
}

// Field is one structured key/value attached to a log line.
type Field struct {
	Key   string
	Value any
}

// Logger is what the pipelines, the watcher and the CLI log through.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// With returns a child that adds fields to every line and writes
	// through the same lock as its parent.
	With(fields ...Field) Logger
}

// JSONLogger writes one JSON object per line. Its level is fixed at
// construction.
type JSONLogger struct {
	writer io.Writer
	level  Level
	fields []Field
	mu     *sync.Mutex
}

// LogEntry is the shape of one line.
type LogEntry struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"msg"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// NopLogger discards everything. Pipelines fall back to it when no logger
// is supplied.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (n NopLogger) With(...Field) Logger { return n }

func NewNopLogger() Logger {
	return NopLogger{}
}

// TimedOperation logs a message with its latency when it ends.
type TimedOperation struct {
	logger Logger
	msg    string
	start  time.Time
	fields []Field
}
