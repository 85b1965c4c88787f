// Package logging is the quorum manager's structured logger: a thin,
// colorized wrapper with a per-component prefix (so a replica's logs can
// be told apart from its peers in a multi-node demo) and a Fatalf that
// terminates the process, for the one error class in this component that
// must not be survived (a Close failure after a durable write has already
// succeeded).
package logging

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
)

type level int

const (
	TRACE level = iota
	DEBUG
	INFO
	WARNING
	ERROR
	FATAL
)

const format = "2006-01-02 15:04:05"

// Logger tags every line with a component name, e.g. the replica id, so
// logs from several QuorumState instances in the same process can be told
// apart.
type Logger struct {
	component string
}

// New returns a Logger that prefixes every line with component.
func New(component string) *Logger {
	return &Logger{component: component}
}

func (l *Logger) Trace(msg string) { l.output(TRACE, msg) }

func (l *Logger) Tracef(msg string, args ...interface{}) {
	l.Trace(fmt.Sprintf(msg, args...))
}

func (l *Logger) Debug(msg string) { l.output(DEBUG, msg) }

func (l *Logger) Debugf(msg string, args ...interface{}) {
	l.Debug(fmt.Sprintf(msg, args...))
}

func (l *Logger) Info(msg string) { l.output(INFO, msg) }

func (l *Logger) Infof(msg string, args ...interface{}) {
	l.Info(fmt.Sprintf(msg, args...))
}

func (l *Logger) Warning(msg string) { l.output(WARNING, msg) }

func (l *Logger) Warningf(msg string, args ...interface{}) {
	l.Warning(fmt.Sprintf(msg, args...))
}

func (l *Logger) Error(msg string) { l.output(ERROR, msg) }

func (l *Logger) Errorf(msg string, args ...interface{}) {
	l.Error(fmt.Sprintf(msg, args...))
}

// Fatal logs at FATAL and then terminates the process. It exists for the
// one failure class the quorum state manager cannot recover from: a Close
// failure on memoryTransitionTo, encountered after the durable write has
// already succeeded, where continuing would leave the in-memory role
// inconsistent with what was persisted.
func (l *Logger) Fatal(msg string) {
	l.output(FATAL, msg)
	os.Exit(1)
}

func (l *Logger) Fatalf(msg string, args ...interface{}) {
	l.Fatal(fmt.Sprintf(msg, args...))
}

func (l *Logger) output(lv level, msg string) {
	t := time.Now().Format(format)
	line := fmt.Sprintf("%v [%s] %s", t, l.component, msg)
	switch lv {
	case TRACE:
		color.Cyan("TRACE %s", line)
	case DEBUG:
		color.Green("DEBUG %s", line)
	case INFO:
		color.White("INFO %s", line)
	case WARNING:
		color.Blue("WARN %s", line)
	case ERROR:
		color.Red("ERROR %s", line)
	case FATAL:
		color.Red("FATAL %s", line)
	}
}
