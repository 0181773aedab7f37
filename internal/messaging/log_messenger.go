package messaging

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/nhl-notifier/internal/logging"
)

// LogMessenger writes messages to the log instead of sending them.
type LogMessenger struct {
	logger *slog.Logger
}

// NewLogMessenger returns a messenger for dry runs.
func NewLogMessenger(logger *slog.Logger) *LogMessenger {
	return &LogMessenger{logger: logger}
}

// SendMessage logs the message and reports it queued.
func (l *LogMessenger) SendMessage(ctx context.Context, from, to, body string) (Status, error) {
	logging.Info(logging.FromContext(ctx, l.logger), "dry run message",
		"from", from,
		logging.FieldRecipient, to,
		"body", body,
	)
	return StatusQueued, nil
}
