package core

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

type VerboseLevel int

const (
	VerboseOff VerboseLevel = iota
	VerboseInfo
	VerboseDebug
	VerboseTrace
)

// Logger writes diagnostics. Warnings are always logged. Other messages depend on the verbose level.
type Logger struct {
	verbose VerboseLevel
	sink    *log.Logger
}

// NewLogger creates a logger writing on stderr.
func NewLogger() *Logger {
	return NewLoggerTo(os.Stderr)
}

// NewLoggerTo creates a logger writing to w.
func NewLoggerTo(w io.Writer) *Logger {
	sink := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "nimbus2md",
		Level:           log.WarnLevel,
	})
	return &Logger{
		verbose: VerboseOff,
		sink:    sink,
	}
}

// DiscardLogger returns a logger ignoring everything.
func DiscardLogger() *Logger {
	return NewLoggerTo(io.Discard)
}

// SetVerboseLevel overrides the default verbose level
func (l *Logger) SetVerboseLevel(level VerboseLevel) *Logger {
	l.verbose = level
	switch {
	case level >= VerboseDebug:
		l.sink.SetLevel(log.DebugLevel)
	case level == VerboseInfo:
		l.sink.SetLevel(log.InfoLevel)
	default:
		l.sink.SetLevel(log.WarnLevel)
	}
	return l
}

func (l *Logger) VerboseLevel() VerboseLevel {
	return l.verbose
}

// With returns a logger adding the key/value pairs to every message.
func (l *Logger) With(keyvals ...any) *Logger {
	return &Logger{
		verbose: l.verbose,
		sink:    l.sink.With(keyvals...),
	}
}

func (l *Logger) Fatal(msg any, keyvals ...any) {
	l.sink.Fatal(msg, keyvals...)
}
func (l *Logger) Fatalf(format string, v ...any) {
	l.sink.Fatalf(format, v...)
}

func (l *Logger) Warn(msg any, keyvals ...any) {
	l.sink.Warn(msg, keyvals...)
}
func (l *Logger) Warnf(format string, v ...any) {
	l.sink.Warnf(format, v...)
}

func (l *Logger) Info(msg any, keyvals ...any) {
	l.sink.Info(msg, keyvals...)
}
func (l *Logger) Infof(format string, v ...any) {
	l.sink.Infof(format, v...)
}

func (l *Logger) Debug(msg any, keyvals ...any) {
	l.sink.Debug(msg, keyvals...)
}
func (l *Logger) Debugf(format string, v ...any) {
	l.sink.Debugf(format, v...)
}

func (l *Logger) Trace(msg any, keyvals ...any) {
	if l.verbose >= VerboseTrace {
		l.sink.Debug(msg, keyvals...)
	}
}
func (l *Logger) Tracef(format string, v ...any) {
	if l.verbose >= VerboseTrace {
		l.sink.Debugf(format, v...)
	}
}
