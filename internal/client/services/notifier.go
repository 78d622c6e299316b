package services

import (
	"context"

	"github.com/agentfree/sessionkit/internal/logging"
)

// Notifier delivers the password reset side effect.
type Notifier interface {
	SendPasswordReset(ctx context.Context, email string) error
}

// LogNotifier records reset requests in the log instead of sending mail.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("module", "notifier")}
}

func (n *LogNotifier) SendPasswordReset(ctx context.Context, email string) error {
	n.logger.Info(ctx, "password reset requested", "email", email)
	return nil
}
