// Package logging defines the logging capability injected into ORION endpoints
// and transport links.
//
// The protocol core never writes to a process-wide logger. It is handed a
// Logger at construction and falls back to Nop when none is given. NewLogrus
// adapts a logrus entry so applications keep their usual structured output.
package logging

import (
	"github.com/sirupsen/logrus"
)

// Level orders log messages by severity.
type Level int

const (
	// LevelDebug is for per-frame tracing.
	LevelDebug Level = iota
	// LevelInfo is for lifecycle events such as binding and delivery.
	LevelInfo
	// LevelWarn is for dropped frames and degraded links.
	LevelWarn
	// LevelError is for radio failures.
	LevelError
)

// String returns the lower-case level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Logger receives log messages from protocol components.
type Logger interface {
	Log(level Level, message string)
}

// Nop discards every message.
type Nop struct{}

// Log implements Logger.
func (Nop) Log(Level, string) {}

// OrNop returns l, or Nop when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop{}
	}
	return l
}

// Logrus forwards messages to a logrus entry.
type Logrus struct {
	entry *logrus.Entry
}

// NewLogrus wraps entry. A nil entry uses the standard logrus logger.
func NewLogrus(entry *logrus.Entry) *Logrus {
	if entry == nil {
		entry = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Logrus{entry: entry}
}

// WithField returns a Logrus adding key=value to every message.
func (l *Logrus) WithField(key string, value interface{}) *Logrus {
	return &Logrus{entry: l.entry.WithField(key, value)}
}

// Log implements Logger.
func (l *Logrus) Log(level Level, message string) {
	l.entry.Log(toLogrusLevel(level), message)
}

func toLogrusLevel(level Level) logrus.Level {
	switch level {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelInfo:
		return logrus.InfoLevel
	case LevelWarn:
		return logrus.WarnLevel
	default:
		return logrus.ErrorLevel
	}
}

// ParseLevel maps a level name to a logrus level, defaulting to info for
// unknown names. Used by command line tools.
func ParseLevel(name string) logrus.Level {
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
