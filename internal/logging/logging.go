package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var level = logrus.InfoLevel

// SetLevel changes the level of loggers created afterwards.
func SetLevel(l logrus.Level) {
	level = l
}

// NamedLogger creates a package logger whose messages carry the package name.
func NamedLogger(name string) *logrus.Logger {
	return NamedLoggerTo(name, os.Stderr)
}

func NamedLoggerTo(name string, out io.Writer) *logrus.Logger {
	return &logrus.Logger{
		Out: out,
		Formatter: &CustomTextFormatter{
			TextFormatter: logrus.TextFormatter{FullTimestamp: true},
			name:          name,
		},
		Hooks:    make(logrus.LevelHooks),
		Level:    level,
		ExitFunc: os.Exit,
	}
}

// Discard returns a logger that drops everything, for tests.
func Discard() *logrus.Logger {
	l := NamedLoggerTo("", io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

type CustomTextFormatter struct {
	logrus.TextFormatter
	name string
}

// Format renders a single log entry
func (f *CustomTextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	entry.Message = fmt.Sprintf("[%-7s] %s", f.name, entry.Message)
	return f.TextFormatter.Format(entry)
}
