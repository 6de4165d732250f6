package worker

import (
	"context"
	"encoding/json"

	"github.com/pizzeria-next/internal/logger"
	"github.com/pizzeria-next/internal/provider"
	"github.com/pizzeria-next/internal/queue"
	"github.com/pizzeria-next/internal/webhook"

	"github.com/hibiken/asynq"
)

// Consumer handles queued webhook tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates a consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register binds task handlers onto the mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskWebhookEvent, c.handleWebhookEvent)
	mux.HandleFunc(queue.TaskWebhookFlush, c.handleWebhookFlush)
}

// handleWebhookEvent delivers one event. Delivery failures queue inside the
// dispatcher, so the task itself always succeeds.
func (c *Consumer) handleWebhookEvent(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.WebhookEventPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_webhook_event_unmarshal_failed", "error", err)
		return err
	}
	if payload.Event == "" {
		logger.Debugw("worker_webhook_event_skip_empty")
		return nil
	}
	c.Dispatcher.SendEvent(ctx, payload.Event, payload.Data, webhook.Meta{
		UserAgent: payload.UserAgent,
		PageURL:   payload.PageURL,
	})
	return nil
}

// handleWebhookFlush retries queued deliveries. A failed pass is returned so
// asynq retries the flush with backoff.
func (c *Consumer) handleWebhookFlush(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	return c.Dispatcher.FlushQueue(ctx)
}
