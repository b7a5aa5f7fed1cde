package notification

import (
	"context"

	"finzo/models"
	"finzo/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Emitter publishes a notification for a mutation that has already committed.
// Emit never reports failure to the caller: delivery is best-effort and must
// not affect the primary write.
type Emitter interface {
	Emit(ctx context.Context, draft models.NotificationDraft)
}

// InlineEmitter appends on the caller's goroutine right after the write.
type InlineEmitter struct {
	svc    NotificationService
	logger *zap.Logger
}

func NewInlineEmitter(svc NotificationService, logger *zap.Logger) *InlineEmitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InlineEmitter{svc: svc, logger: logger}
}

func (e *InlineEmitter) Emit(ctx context.Context, draft models.NotificationDraft) {
	// The write already committed; a cancelled request must not drop the record.
	ctx = context.WithoutCancel(ctx)
	if _, err := e.svc.Create(ctx, draft); err != nil {
		e.logger.Error("failed to emit notification",
			zap.String("title", draft.Title),
			zap.String("transactionId", draft.TransactionID),
			zap.Error(err),
		)
	}
}

// Enqueuer is the subset of *asynq.Client the queue emitter needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueEmitter hands the draft to the asynq worker, which performs the append.
type QueueEmitter struct {
	client Enqueuer
	logger *zap.Logger
}

func NewQueueEmitter(client Enqueuer, logger *zap.Logger) *QueueEmitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueueEmitter{client: client, logger: logger}
}

func (e *QueueEmitter) Emit(ctx context.Context, draft models.NotificationDraft) {
	task, opts, err := tasks.NewEmitNotificationTask(draft)
	if err != nil {
		e.logger.Error("failed to build notification task", zap.String("title", draft.Title), zap.Error(err))
		return
	}
	info, err := e.client.EnqueueContext(context.WithoutCancel(ctx), task, opts...)
	if err != nil {
		e.logger.Error("failed to enqueue notification",
			zap.String("title", draft.Title),
			zap.String("transactionId", draft.TransactionID),
			zap.Error(err),
		)
		return
	}
	e.logger.Debug("notification enqueued", zap.String("taskId", info.ID), zap.String("queue", info.Queue))
}
