package queue

import (
	"encoding/json"

	"github.com/pizzeria-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskWebhookEvent delivers one outbound event notification.
	TaskWebhookEvent = constants.TaskWebhookEvent
	// TaskWebhookFlush retries the queued notifications.
	TaskWebhookFlush = constants.TaskWebhookFlush
)

// WebhookEventPayload is the task payload for one event notification.
type WebhookEventPayload struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data,omitempty"`
	UserAgent string      `json:"user_agent,omitempty"`
	PageURL   string      `json:"page_url,omitempty"`
}

// WebhookFlushPayload is the (empty) task payload for a flush pass.
type WebhookFlushPayload struct{}

// NewWebhookEventTask creates an event notification task.
func NewWebhookEventTask(payload WebhookEventPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWebhookEvent, body), nil
}

// NewWebhookFlushTask creates a flush task.
func NewWebhookFlushTask() (*asynq.Task, error) {
	body, err := json.Marshal(WebhookFlushPayload{})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWebhookFlush, body), nil
}
