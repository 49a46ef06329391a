package client

import (
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Log field keys used across the package.
const (
	fieldComponent = "component"
	fieldStatement = "statement"
	fieldBindings  = "bindings"
	fieldSQL       = "sql"
	fieldPortal    = "portal"
)

// NewLogger creates a logrus entry configured for driver-internal logging.
// Level is one of debug, info, warn, error; unknown values fall back to
// info.
func NewLogger(level string, output io.Writer) *logrus.Entry {
	logger := logrus.New()

	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	if output != nil {
		logger.SetOutput(output)
	}
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})

	return logger.WithField(fieldComponent, "pgdriver")
}

// NewNoopLogger creates a logger that discards all output.
func NewNoopLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}
