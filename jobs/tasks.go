package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeNotifyDeliver is the task type for delivering user notifications.
	TaskTypeNotifyDeliver = "notify:deliver"
)

// NotifyDeliverPayload describes a notification queued for delivery.
type NotifyDeliverPayload struct {
	UserID  int64  `json:"userId"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Email   bool   `json:"email"`
	Push    bool   `json:"push"`
	Locale  string `json:"locale"`
}

// NewNotifyDeliverTask constructs an Asynq task.
func NewNotifyDeliverTask(payload NotifyDeliverPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeNotifyDeliver, data), nil
}

// HandleNotifyDeliverTask processes TaskTypeNotifyDeliver tasks.
func HandleNotifyDeliverTask(ctx context.Context, t *asynq.Task) error {
	var payload NotifyDeliverPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	// Placeholder: integrate with SMTP and the push gateway once those
	// credentials land in config.
	fmt.Printf("[jobs] deliver notification user=%d subject=%s email=%t push=%t\n",
		payload.UserID, payload.Subject, payload.Email, payload.Push)
	return nil
}
