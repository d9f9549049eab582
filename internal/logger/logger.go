package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is our abstract logging interface.
type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(err error)
	WithFields(fields map[string]any) Logger
}

// LogrusLogger implements Logger using logrus.
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger creates a logrus logger writing JSON to stdout and filepath.
// An empty filepath logs to stdout only.
func NewLogrusLogger(filepath string) (Logger, error) {
	var out io.Writer = os.Stdout
	if filepath != "" {
		file, err := os.OpenFile(filepath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		out = io.MultiWriter(os.Stdout, file)
	}

	return New(out, logrus.InfoLevel), nil
}

// New returns a JSON logger on w at the given level.
func New(w io.Writer, level logrus.Level) Logger {
	baseLogger := logrus.New()
	baseLogger.SetOutput(w)
	baseLogger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05.000000",
	})
	baseLogger.SetLevel(level)

	return &LogrusLogger{
		entry: logrus.NewEntry(baseLogger),
	}
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	return New(io.Discard, logrus.PanicLevel)
}

func (l *LogrusLogger) Info(msg string) {
	l.entry.Info(msg)
}

func (l *LogrusLogger) Warn(msg string) {
	l.entry.Warn(msg)
}

func (l *LogrusLogger) Error(err error) {
	l.entry.Error(err)
}

func (l *LogrusLogger) WithFields(fields map[string]any) Logger {
	return &LogrusLogger{
		entry: l.entry.WithFields(logrus.Fields(fields)),
	}
}
