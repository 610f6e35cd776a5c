// Package obslog provides the structured logger shared by every flightcore
// component, ground tool, and test.
package obslog

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger instance.
var Logger *logrus.Logger

func init() {
	Logger = New("info", "stdout")
}

// New creates a configured logger writing JSON lines.
func New(level, output string) *logrus.Logger {
	logger := logrus.New()

	// Set log level
	switch level {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "info":
		logger.SetLevel(logrus.InfoLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	// Set output
	if output == "stdout" {
		logger.SetOutput(os.Stdout)
	} else {
		file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			logger.SetOutput(file)
		} else {
			logger.SetOutput(os.Stdout)
			logger.Warnf("Failed to open log file %s, using stdout", output)
		}
	}

	// JSON format for structured logging
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})

	return logger
}

// SetLevel changes the log level at runtime.
func SetLevel(level string) {
	switch level {
	case "debug":
		Logger.SetLevel(logrus.DebugLevel)
	case "info":
		Logger.SetLevel(logrus.InfoLevel)
	case "warn":
		Logger.SetLevel(logrus.WarnLevel)
	case "error":
		Logger.SetLevel(logrus.ErrorLevel)
	}
}

// Component returns a child entry tagged with the owning component name, so
// call sites never build the field map by hand.
func Component(name string) *logrus.Entry {
	return Logger.WithField("component", name)
}
