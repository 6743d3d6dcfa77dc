// Package logger provides structured logging utilities for the bilingual-subtitler application.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the shared logrus instance. CLI setup may adjust its level and output.
var Log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
	return l
}

// SetDebug enables debug-level logging.
func SetDebug(enabled bool) {
	if enabled {
		Log.SetLevel(logrus.DebugLevel)
	} else {
		Log.SetLevel(logrus.InfoLevel)
	}
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	Log.SetOutput(w)
}

// WithField returns an entry carrying a single structured field.
func WithField(key string, value interface{}) *logrus.Entry {
	return Log.WithField(key, value)
}

// WithFields returns an entry carrying structured fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Log.WithFields(fields)
}

// Debug logs a debug message.
func Debug(format string, args ...interface{}) {
	Log.Debugf(format, args...)
}

// Info logs an informational message.
func Info(format string, args ...interface{}) {
	Log.Infof(format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...interface{}) {
	Log.Warnf(format, args...)
}

// Error logs an error message.
func Error(format string, args ...interface{}) {
	Log.Errorf(format, args...)
}
