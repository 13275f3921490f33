// Package logging wraps zap so the rest of glonax depends on a small
// interface instead of the logging backend directly.
package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// Logger is the logging surface every glonax component depends on.
type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Error(args ...interface{})
	With(args ...interface{}) Logger
	Named(name string) Logger
	Sync() error
}

type sugarLogger struct {
	*zap.SugaredLogger
}

func (l *sugarLogger) With(args ...interface{}) Logger {
	return &sugarLogger{l.SugaredLogger.With(args...)}
}

func (l *sugarLogger) Named(name string) Logger {
	return &sugarLogger{l.SugaredLogger.Named(name)}
}

// NewDevelopmentLogger returns a console-encoded logger suitable for a
// terminal, named after the calling daemon.
func NewDevelopmentLogger(name string) Logger {
	l, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return &sugarLogger{l.Sugar().Named(name)}
}

// NewProductionLogger returns a JSON-encoded logger suitable for a
// systemd journal.
func NewProductionLogger(name string) Logger {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return &sugarLogger{l.Sugar().Named(name)}
}

// NewTestLogger returns a logger that writes to the test's own output,
// for use in table-driven tests.
func NewTestLogger(tb testing.TB) Logger {
	return &sugarLogger{zaptest.NewLogger(tb).Sugar()}
}
