package utils

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

func ErrorHandler(logger *logrus.Logger, err error, message string) error {
	if err != nil {
		logger.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error(message)
		return fmt.Errorf("%s: %w", message, err)
	}
	return nil
}
