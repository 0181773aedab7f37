package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/preston-bernstein/nhl-notifier/internal/logging"
	"github.com/preston-bernstein/nhl-notifier/internal/metrics"
)

// Delivery counts per-recipient outcomes of one broadcast.
type Delivery struct {
	Sent   int
	Failed int
}

// Any reports whether at least one recipient received the message.
func (d Delivery) Any() bool {
	return d.Sent > 0
}

// Broadcaster sends one body to a list of recipients, best effort.
type Broadcaster struct {
	messenger Messenger
	from      string
	logger    *slog.Logger
	metrics   *metrics.Recorder
}

// NewBroadcaster builds a broadcaster sending from the given number.
func NewBroadcaster(m Messenger, from string, logger *slog.Logger, recorder *metrics.Recorder) *Broadcaster {
	return &Broadcaster{
		messenger: m,
		from:      from,
		logger:    logger,
		metrics:   recorder,
	}
}

// Broadcast sends body to every recipient in order. A failure for one
// recipient is logged and does not stop the rest.
func (b *Broadcaster) Broadcast(ctx context.Context, kind Kind, recipients []string, body string) Delivery {
	logger := logging.FromContext(ctx, b.logger)
	var d Delivery
	for _, to := range recipients {
		status, err := b.messenger.SendMessage(ctx, b.from, to, body)
		if err == nil && !status.Delivered() {
			err = fmt.Errorf("%w: status %q", ErrUndelivered, status)
		}
		if err != nil {
			d.Failed++
			logging.Error(logger, "notification failed", err,
				logging.FieldKind, string(kind),
				logging.FieldRecipient, to,
				logging.FieldStatus, string(status),
			)
			continue
		}
		d.Sent++
		logging.Info(logger, "notification sent",
			logging.FieldKind, string(kind),
			logging.FieldRecipient, to,
			logging.FieldStatus, string(status),
		)
	}
	b.metrics.RecordNotification(string(kind), d.Sent, d.Failed)
	return d
}
