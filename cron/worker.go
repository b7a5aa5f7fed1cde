package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finzo/models"
	"finzo/services/notification"
	"finzo/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NotificationWorker consumes queued notification drafts and appends them.
type NotificationWorker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

// NewNotificationWorker builds the asynq server for the notification queue.
func NewNotificationWorker(redisOpts asynq.RedisClientOpt, svc notification.NotificationService, logger *zap.Logger) *NotificationWorker {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				tasks.NotificationQueue: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeEmitNotification, HandleEmitNotification(svc, logger))

	return &NotificationWorker{srv: srv, mux: mux, logger: logger}
}

// Start runs the worker in the background, retrying startup with backoff.
func (w *NotificationWorker) Start() {
	go func() {
		w.logger.Info("[NotificationWorker] starting async worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.srv.Start(w.mux)
			if err == nil {
				return
			}
			w.logger.Warn("[NotificationWorker] failed to start worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				w.logger.Error("[NotificationWorker] max retry attempts reached; queued notifications will not be delivered")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

// Shutdown stops fetching new tasks and waits for in-flight ones.
func (w *NotificationWorker) Shutdown() {
	w.srv.Shutdown()
}

// HandleEmitNotification appends the queued draft. Drafts that fail validation
// are dropped without retry.
func HandleEmitNotification(svc notification.NotificationService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		draft, err := tasks.ParseEmitNotificationTask(task)
		if err != nil {
			logger.Error("[NotificationHandler] invalid payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		n, err := svc.Create(ctx, draft)
		if errors.Is(err, models.ErrInvalidNotification) {
			logger.Error("[NotificationHandler] rejected draft", zap.String("title", draft.Title), zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if err != nil {
			logger.Warn("[NotificationHandler] append failed; will retry", zap.Error(err))
			return err
		}

		logger.Debug("[NotificationHandler] notification appended", zap.String("id", n.ID))
		return nil
	}
}

// MonitorRedisConnection pings Redis periodically to detect failures at runtime.
func MonitorRedisConnection(ctx context.Context, client *redis.Client, logger *zap.Logger) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("[NotificationWorker] Redis connection lost", zap.Error(err))
			}
		}
	}
}
