package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"finzo/models"

	"github.com/hibiken/asynq"
)

const (
	TypeEmitNotification = "notification:emit"
	NotificationQueue    = "notifications"
)

// NewEmitNotificationTask wraps a draft for the notification worker.
func NewEmitNotificationTask(draft models.NotificationDraft) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(draft)
	if err != nil {
		return nil, nil, fmt.Errorf("NewEmitNotificationTask: %w", err)
	}
	task := asynq.NewTask(TypeEmitNotification, b)
	opts := []asynq.Option{
		asynq.Queue(NotificationQueue),
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Second),
	}
	return task, opts, nil
}

// ParseEmitNotificationTask decodes the draft carried by task.
func ParseEmitNotificationTask(task *asynq.Task) (models.NotificationDraft, error) {
	var draft models.NotificationDraft
	if err := json.Unmarshal(task.Payload(), &draft); err != nil {
		return models.NotificationDraft{}, fmt.Errorf("ParseEmitNotificationTask: %w", err)
	}
	return draft, nil
}
