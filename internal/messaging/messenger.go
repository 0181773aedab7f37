package messaging

import (
	"context"
	"errors"
)

// Status is the delivery state reported by the messaging provider.
type Status string

const (
	StatusQueued Status = "queued"
	StatusSent   Status = "sent"
	StatusFailed Status = "failed"
)

// Delivered reports whether the provider accepted the message.
func (s Status) Delivered() bool {
	return s == StatusSent || s == StatusQueued
}

// ErrUndelivered is returned when the provider answers with a non-success status.
var ErrUndelivered = errors.New("message not delivered")

// Messenger sends a single text message.
type Messenger interface {
	SendMessage(ctx context.Context, from, to, body string) (Status, error)
}

// Kind labels a notification for logs and metrics.
type Kind string

const (
	KindPreview   Kind = "preview"
	KindGoal      Kind = "goal"
	KindHighlight Kind = "highlight"
	KindFinal     Kind = "final"
)
