package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the handle passed into every service. It keeps the call sites on
// Printf/Errorf while the backend stays logrus.
type Logger struct {
	l *logrus.Logger
}

func NewLogger(level string) *Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(os.Stdout)
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)
	return &Logger{l: l}
}

func (lg *Logger) Printf(format string, args ...any) {
	if lg == nil {
		return
	}
	lg.l.Infof(format, args...)
}

func (lg *Logger) Infof(format string, args ...any) {
	if lg == nil {
		return
	}
	lg.l.Infof(format, args...)
}

func (lg *Logger) Errorf(format string, args ...any) {
	if lg == nil {
		return
	}
	lg.l.Errorf(format, args...)
}

func (lg *Logger) Warnf(format string, args ...any) {
	if lg == nil {
		return
	}
	lg.l.Warnf(format, args...)
}
