// Package notify is the notification dispatch boundary. The server enqueues;
// the worker delivers. Callers treat dispatch failures as log-and-continue:
// a mutation that already succeeded is never rolled back because an email
// could not go out.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/duetrack/duetrack/jobs"
)

// Message is one outbound notification.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Dispatcher accepts a message for asynchronous delivery.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}

// QueueDispatcher enqueues messages on the background job queue.
type QueueDispatcher struct {
	client *jobs.Client
	logger *slog.Logger
}

// NewQueueDispatcher constructs a QueueDispatcher.
func NewQueueDispatcher(client *jobs.Client, logger *slog.Logger) *QueueDispatcher {
	return &QueueDispatcher{client: client, logger: logger}
}

// Send enqueues one mail:send task.
func (d *QueueDispatcher) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("notify: message has no recipient")
	}
	_, err := d.client.EnqueueSendEmail(ctx, jobs.SendEmailPayload{
		To:      msg.To,
		Subject: msg.Subject,
		Body:    msg.Body,
	})
	if err != nil {
		return fmt.Errorf("notify: enqueue: %w", err)
	}
	return nil
}
