package tasks

import (
	"testing"

	"finzo/models"
)

func TestEmitNotificationTaskCarriesDraft(t *testing.T) {
	before := models.TransactionSnapshot{
		Payee:     "Coffee",
		Amount:    -450,
		AccountID: "a1",
		Date:      models.NewDate(2024, 1, 5),
	}
	draft := models.NotificationDraft{
		Type:          models.NotificationInfo,
		Title:         "Transaction Deleted",
		TransactionID: "tx1",
		Change:        models.ChangeDeleted,
		BeforeState:   &before,
	}

	task, opts, err := NewEmitNotificationTask(draft)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if task.Type() != TypeEmitNotification {
		t.Fatalf("unexpected type %q", task.Type())
	}
	if len(opts) == 0 {
		t.Fatalf("expected queue options")
	}

	got, err := ParseEmitNotificationTask(task)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Change != models.ChangeDeleted || got.BeforeState == nil || !got.BeforeState.Equal(before) {
		t.Fatalf("draft not preserved: %+v", got)
	}
}
