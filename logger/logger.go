package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// LogLevel defines the severity of the log
type LogLevel int

const (
	LogLevelSilent LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// ParseLevel maps a config level name onto a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent", "off", "none":
		return LogLevelSilent, nil
	case "error":
		return LogLevelError, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "", "info":
		return LogLevelInfo, nil
	case "debug":
		return LogLevelDebug, nil
	}
	return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
}

// LogFormat defines the output format of the log
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// Logger is the interface for logging progress and parse tracing
type Logger interface {
	SetLevel(level LogLevel)
	SetFormat(format LogFormat)
	SetOutput(w io.Writer)
	WithFields(fields map[string]any) Logger
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// baseLogger contains common logging state
type baseLogger struct {
	level  LogLevel
	format LogFormat
	writer io.Writer
	fields map[string]any
}

func (l *baseLogger) clone() baseLogger {
	newFields := make(map[string]any, len(l.fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	return baseLogger{
		level:  l.level,
		format: l.format,
		writer: l.writer,
		fields: newFields,
	}
}

// stdLogger is the default implementation of Logger, backed by zerolog
type stdLogger struct {
	baseLogger
	zl zerolog.Logger
}

// NewStdLogger creates a new standard logger writing text to stderr.
// Stdout is left to the diagnostics printer.
func NewStdLogger() Logger {
	l := &stdLogger{
		baseLogger: baseLogger{
			level:  LogLevelInfo,
			format: LogFormatText,
			writer: os.Stderr,
			fields: make(map[string]any),
		},
	}
	l.rebuild()
	return l
}

// FromEnv creates a standard logger and turns on debug tracing when
// DEBUG is "true" or "1".
func FromEnv() Logger {
	l := NewStdLogger()
	if DebugEnabled() {
		l.SetLevel(LogLevelDebug)
	}
	return l
}

// DebugEnabled reports whether the DEBUG toggle is set.
func DebugEnabled() bool {
	v := os.Getenv("DEBUG")
	return v == "true" || v == "1"
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	l := NewStdLogger()
	l.SetOutput(nil)
	l.SetLevel(LogLevelSilent)
	return l
}

func (l *stdLogger) SetLevel(level LogLevel) {
	l.level = level
	l.rebuild()
}

func (l *stdLogger) SetFormat(format LogFormat) {
	l.format = format
	l.rebuild()
}

func (l *stdLogger) SetOutput(w io.Writer) {
	l.writer = w
	l.rebuild()
}

func (l *stdLogger) WithFields(fields map[string]any) Logger {
	newLogger := &stdLogger{
		baseLogger: l.clone(),
	}
	for k, v := range fields {
		newLogger.fields[k] = v
	}
	newLogger.rebuild()
	return newLogger
}

func (l *stdLogger) Debug(format string, args ...any) {
	l.zl.Debug().Msgf(format, args...)
}

func (l *stdLogger) Info(format string, args ...any) {
	l.zl.Info().Msgf(format, args...)
}

func (l *stdLogger) Warn(format string, args ...any) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *stdLogger) Error(format string, args ...any) {
	l.zl.Error().Msgf(format, args...)
}

func (l *stdLogger) rebuild() {
	var w io.Writer = l.writer
	if w == nil {
		w = io.Discard
	}
	if l.format != LogFormatJSON {
		w = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    os.Getenv("NO_COLOR") != "",
			TimeFormat: "2006-01-02 15:04:05",
		}
	}

	ctx := zerolog.New(w).Level(zerologLevel(l.level)).With().Timestamp()
	if len(l.fields) > 0 {
		ctx = ctx.Fields(l.fields)
	}
	l.zl = ctx.Logger()
}

func zerologLevel(level LogLevel) zerolog.Level {
	switch level {
	case LogLevelSilent:
		return zerolog.Disabled
	case LogLevelError:
		return zerolog.ErrorLevel
	case LogLevelWarn:
		return zerolog.WarnLevel
	case LogLevelDebug:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}
