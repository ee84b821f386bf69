package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	logger *logrus.Logger
}

// New builds a logrus-backed logger. Unknown levels fall back to info.
func New(level string, jsonFormat bool) *Logger {
	l := logrus.New()
	l.Out = os.Stdout

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)

	if jsonFormat {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			PadLevelText:  true,
		})
	}

	return &Logger{logger: l}
}

func (l *Logger) Debug(msg string, fields ...logrus.Fields) {
	l.log(logrus.DebugLevel, msg, fields...)
}

func (l *Logger) Info(msg string, fields ...logrus.Fields) {
	l.log(logrus.InfoLevel, msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...logrus.Fields) {
	l.log(logrus.WarnLevel, msg, fields...)
}

func (l *Logger) Error(msg string, fields ...logrus.Fields) {
	l.log(logrus.ErrorLevel, msg, fields...)
}

func (l *Logger) Fatal(msg string, fields ...logrus.Fields) {
	l.log(logrus.FatalLevel, msg, fields...)
	os.Exit(1)
}

func (l *Logger) log(level logrus.Level, msg string, fields ...logrus.Fields) {
	entry := logrus.NewEntry(l.logger)
	for _, f := range fields {
		entry = entry.WithFields(f)
	}
	entry.Log(level, msg)
}
