// Package jobs carries the background task plumbing: task types, the queue
// client used by the server, and the worker that drains the queue.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the queue every duetrack task lands on.
	QueueDefault = "default"
	// TaskTypeSendEmail delivers one transactional email.
	TaskTypeSendEmail = "mail:send"
)

// SendEmailPayload describes one outbound email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask wraps the payload in an asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// Sender performs the actual delivery; the worker injects an SMTP
// implementation.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SendEmailHandler processes TaskTypeSendEmail tasks.
type SendEmailHandler struct {
	sender Sender
	logger *slog.Logger
}

// NewSendEmailHandler constructs the handler.
func NewSendEmailHandler(sender Sender, logger *slog.Logger) *SendEmailHandler {
	return &SendEmailHandler{sender: sender, logger: logger}
}

// Handle delivers one email. A malformed payload is dropped rather than
// retried forever.
func (h *SendEmailHandler) Handle(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if err := h.sender.Send(ctx, payload.To, payload.Subject, payload.Body); err != nil {
		h.logger.Warn("send email", slog.String("to", payload.To), slog.Any("error", err))
		return err
	}
	h.logger.Info("email sent", slog.String("to", payload.To), slog.String("subject", payload.Subject))
	return nil
}
