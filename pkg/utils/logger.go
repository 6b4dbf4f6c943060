package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger. Level comes from LOG_LEVEL, output is
// stdout unless APP_ENV=production, in which case logs append to LOG_FILE.
func NewLogger() *logrus.Logger {
	logger := logrus.New()

	logger.SetReportCaller(true)
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
		PrettyPrint:     false,
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			filename := filepath.Base(f.File)
			return "", filename + ":" + strconv.Itoa(f.Line)
		},
	})

	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	logger.Out = os.Stdout

	if os.Getenv("APP_ENV") == "production" {
		logPath := os.Getenv("LOG_FILE")
		if logPath == "" {
			logPath = filepath.Join("logs", "app.log")
		}
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			logger.WithError(err).Warn("Failed to create logs directory, using stdout instead")
			return logger
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			logger.WithError(err).Warn("Failed to log to file, using stdout instead")
			return logger
		}
		logger.Out = file
	}

	return logger
}
