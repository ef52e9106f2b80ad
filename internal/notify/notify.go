// Package notify delivers best-effort email notifications.
package notify

import (
	"context"
	"log/slog"
	"time"

	"agridynamic/internal/worker"
)

const deliveryTimeout = time.Minute

// Message is an outbound email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier queues messages for delivery without blocking the caller.
type Notifier struct {
	sender Sender
	tasks  worker.Dispatcher
	logger *slog.Logger
}

// NewNotifier creates a notifier. A nil sender disables delivery.
func NewNotifier(sender Sender, tasks worker.Dispatcher, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{sender: sender, tasks: tasks, logger: logger}
}

// Enabled reports whether messages are actually delivered.
func (n *Notifier) Enabled() bool {
	return n != nil && n.sender != nil
}

// Notify queues msg. Delivery errors are logged by the worker pool and never
// returned; there are no retries.
func (n *Notifier) Notify(msg Message) {
	if !n.Enabled() {
		return
	}
	if msg.To == "" {
		n.logger.Debug("notification skipped, no recipient", slog.String("subject", msg.Subject))
		return
	}
	sender := n.sender
	n.tasks.Submit("notify.email", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
		defer cancel()
		return sender.Send(ctx, msg)
	})
}
