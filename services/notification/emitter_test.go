package notification

import (
	"context"
	"errors"
	"testing"

	"finzo/models"
	"finzo/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type failingService struct {
	NotificationService
	calls int
}

func (f *failingService) Create(context.Context, models.NotificationDraft) (*models.Notification, error) {
	f.calls++
	return nil, errors.New("store unavailable")
}

func TestInlineEmitterSwallowsFailures(t *testing.T) {
	svc := &failingService{}
	e := NewInlineEmitter(svc, zap.NewNop())

	e.Emit(context.Background(), BulkDeletedDraft())
	if svc.calls != 1 {
		t.Fatalf("expected one append attempt, got %d", svc.calls)
	}
}

func TestInlineEmitterSurvivesCancelledContext(t *testing.T) {
	svc := newTestService(t, nil)
	e := NewInlineEmitter(svc, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e.Emit(ctx, deletedCoffee())

	list, _ := svc.List(context.Background(), models.FilterAll)
	if len(list) != 1 {
		t.Fatalf("expected the notification to be appended, got %d", len(list))
	}
}

type recordingEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (r *recordingEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.tasks = append(r.tasks, task)
	return &asynq.TaskInfo{ID: "t1", Queue: tasks.NotificationQueue}, nil
}

func TestQueueEmitterEnqueuesDraft(t *testing.T) {
	q := &recordingEnqueuer{}
	e := NewQueueEmitter(q, zap.NewNop())

	e.Emit(context.Background(), deletedCoffee())
	if len(q.tasks) != 1 {
		t.Fatalf("expected one task, got %d", len(q.tasks))
	}
	draft, err := tasks.ParseEmitNotificationTask(q.tasks[0])
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if draft.TransactionID != "tx1" || draft.Change != models.ChangeDeleted {
		t.Fatalf("unexpected draft: %+v", draft)
	}

	// Enqueue failures are logged, never surfaced.
	q.err = errors.New("redis down")
	e.Emit(context.Background(), deletedCoffee())
}
