package logging

import (
	"fmt"
	"io"

	"github.com/fivetwenty-io/gapi-client/pkg/gapi"
	"github.com/sirupsen/logrus"
)

// Setup creates a logrus logger at the named level carrying fields on every
// entry. Text output uses full timestamps; json switches to the JSON
// formatter.
func Setup(out io.Writer, level, format string, fields logrus.Fields) (*logrus.Entry, error) {
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(logLevel)

	switch format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "01-02-2006 15:04:05",
		})
	}

	return logger.WithFields(fields), nil
}

// Logger adapts a logrus.FieldLogger to gapi.Logger.
type Logger struct {
	entry logrus.FieldLogger
}

var _ gapi.Logger = (*Logger)(nil)

// NewLogrusLogger wraps entry.
func NewLogrusLogger(entry logrus.FieldLogger) *Logger {
	return &Logger{entry: entry}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Debug(msg)
}

// Info logs at info level.
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Info(msg)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Warn(msg)
}

// Error logs at error level.
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Error(msg)
}
