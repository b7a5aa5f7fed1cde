package models

import (
	"errors"
	"testing"
	"time"
)

func TestDraftNormalizeTagsChange(t *testing.T) {
	d := NotificationDraft{
		Type:          NotificationInfo,
		Title:         "Transaction Deleted",
		TransactionID: "tx1",
		BeforeState:   snap("Coffee", -450),
	}
	if err := d.Normalize(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Change != ChangeDeleted {
		t.Fatalf("expected deleted tag, got %q", d.Change)
	}
}

func TestDraftNormalizeRejects(t *testing.T) {
	cases := map[string]NotificationDraft{
		"unknown type":         {Type: "error", Title: "x"},
		"missing title":        {Type: NotificationInfo},
		"linked no snapshots":  {Type: NotificationInfo, Title: "x", TransactionID: "tx1"},
		"snapshots no link":    {Type: NotificationInfo, Title: "x", AfterState: snap("a", 1)},
		"tag disagrees":        {Type: NotificationInfo, Title: "x", TransactionID: "tx1", Change: ChangeCreated, BeforeState: snap("a", 1)},
		"tag without snapshot": {Type: NotificationInfo, Title: "x", Change: ChangeDeleted},
	}
	for name, d := range cases {
		t.Run(name, func(t *testing.T) {
			if err := d.Normalize(); !errors.Is(err, ErrInvalidNotification) {
				t.Fatalf("expected ErrInvalidNotification, got %v", err)
			}
		})
	}
}

func TestDraftNormalizeAllowsPlainNotification(t *testing.T) {
	d := NotificationDraft{Type: NotificationInfo, Title: "Transactions Deleted"}
	if err := d.Normalize(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := d.Materialize("n1", time.Unix(0, 0))
	if _, err := n.TransactionChange(); !errors.Is(err, ErrNotTransactionLinked) {
		t.Fatalf("expected ErrNotTransactionLinked, got %v", err)
	}
}

func TestNotificationFilter(t *testing.T) {
	read := Notification{Type: NotificationSuccess, Read: true}
	unread := Notification{Type: NotificationWarning}

	if !FilterAll.Matches(read) || !FilterAll.Matches(unread) {
		t.Fatalf("all should match everything")
	}
	if FilterUnread.Matches(read) || !FilterUnread.Matches(unread) {
		t.Fatalf("unread filter wrong")
	}
	if !FilterSuccess.Matches(read) || FilterSuccess.Matches(unread) {
		t.Fatalf("type filter wrong")
	}

	if f, err := ParseNotificationFilter(""); err != nil || f != FilterAll {
		t.Fatalf("empty filter should be all, got %q %v", f, err)
	}
	if _, err := ParseNotificationFilter("bogus"); err == nil {
		t.Fatalf("expected error for unknown filter")
	}
}
