package mailer

import (
	"context"

	"github.com/google/uuid"

	"github.com/osa911/contactrelay/internal/logging"
)

// LogSender writes messages to the log instead of delivering them.
// Used in development when no provider key is configured.
type LogSender struct {
	logger *logging.Logger
}

func NewLogSender(logger *logging.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg *Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := "dev-" + uuid.NewString()
	s.logger.Info("Email not delivered (no provider configured) id=%s to=%s reply_to=%s subject=%q",
		id, msg.To, msg.ReplyTo, msg.Subject)
	return id, nil
}
