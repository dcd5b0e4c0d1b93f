// Package logging provides component loggers on top of the standard log
// package: a "[component] " prefix, microsecond timestamps and a level gate.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// Level orders log severities.
type Level int32

const (
	Debug Level = iota
	Info
	Warn
	Error
	// Quiet suppresses everything.
	Quiet
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	case Quiet:
		return "QUIET"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a name such as "debug" or "warn" to its Level.
func ParseLevel(s string) (Level, error) {
	for l := Debug; l <= Quiet; l++ {
		if strings.EqualFold(s, l.String()) {
			return l, nil
		}
	}
	return Info, fmt.Errorf("unknown log level %q", s)
}

// Logger writes leveled lines for one component.
type Logger struct {
	out *log.Logger
	min atomic.Int32
}

// New returns a logger for component writing to stdout at Info level.
func New(component string) *Logger {
	return NewWithWriter(component, os.Stdout)
}

// NewWithWriter returns a logger for component writing to w.
func NewWithWriter(component string, w io.Writer) *Logger {
	l := &Logger{out: log.New(w, "["+component+"] ", log.LstdFlags|log.Lmicroseconds)}
	l.min.Store(int32(Info))
	return l
}

// SetLevel drops messages below lvl.
func (l *Logger) SetLevel(lvl Level) { l.min.Store(int32(lvl)) }

// Level reports the current threshold.
func (l *Logger) Level() Level { return Level(l.min.Load()) }

func (l *Logger) Debugf(format string, args ...any) { l.logf(Debug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(Info, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(Warn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(Error, format, args...) }

// Fatalf logs at Error regardless of level and exits.
func (l *Logger) Fatalf(format string, args ...any) {
	l.out.Fatalf("%s %s", Error, fmt.Sprintf(format, args...))
}

func (l *Logger) logf(lvl Level, format string, args ...any) {
	if lvl < l.Level() {
		return
	}
	l.out.Printf("%s %s", lvl, fmt.Sprintf(format, args...))
}
