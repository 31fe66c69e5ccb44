package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogTransport only logs messages, for dry runs
type LogTransport struct {
	logger logrus.FieldLogger
}

// NewLogTransport creates a transport writing to logger, or the standard logrus logger when nil
func NewLogTransport(logger logrus.FieldLogger) *LogTransport {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogTransport{logger: logger}
}

func (l *LogTransport) Name() string {
	return "log"
}

func (l *LogTransport) Deliver(_ context.Context, msg Message) error {
	l.logger.WithFields(logrus.Fields{
		"recipient": msg.Recipient.Email,
		"subject":   msg.Subject,
	}).Info(msg.Body)
	return nil
}
