package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// NotificationType informs display styling only.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

// Valid reports whether t is one of the known types.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationSuccess, NotificationWarning, NotificationInfo:
		return true
	}
	return false
}

// Notification is an audit-log entry describing one mutation.
type Notification struct {
	ID            string               `json:"id"`
	Type          NotificationType     `json:"type"`
	Title         string               `json:"title"`
	Message       string               `json:"message"`
	Timestamp     time.Time            `json:"timestamp"`
	Read          bool                 `json:"read"`
	TransactionID string               `json:"transactionId,omitempty"`
	Change        ChangeKind           `json:"change,omitempty"`
	BeforeState   *TransactionSnapshot `json:"beforeState,omitempty"`
	AfterState    *TransactionSnapshot `json:"afterState,omitempty"`
}

// NotificationDraft is what a mutation hands to the emitter; the store assigns
// id, timestamp and read.
type NotificationDraft struct {
	Type          NotificationType     `json:"type"`
	Title         string               `json:"title"`
	Message       string               `json:"message"`
	TransactionID string               `json:"transactionId,omitempty"`
	Change        ChangeKind           `json:"change,omitempty"`
	BeforeState   *TransactionSnapshot `json:"beforeState,omitempty"`
	AfterState    *TransactionSnapshot `json:"afterState,omitempty"`
}

// ErrInvalidNotification wraps every draft validation failure.
var ErrInvalidNotification = errors.New("invalid notification")

// Normalize validates the draft and fills in the change tag. A draft linked to
// a transaction must carry exactly one snapshot shape; an unlinked draft must
// carry none.
func (d *NotificationDraft) Normalize() error {
	if !d.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidNotification, d.Type)
	}
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidNotification)
	}

	if d.TransactionID == "" {
		if d.BeforeState != nil || d.AfterState != nil || d.Change != ChangeNone {
			return fmt.Errorf("%w: snapshots require a transactionId", ErrInvalidNotification)
		}
		return nil
	}

	inferred, err := KindOf(d.BeforeState, d.AfterState)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidNotification, err)
	}
	if d.Change != ChangeNone && d.Change != inferred {
		return fmt.Errorf("%w: change %q does not match snapshots (%q)", ErrInvalidNotification, d.Change, inferred)
	}
	d.Change = inferred
	return nil
}

// Materialize turns a normalized draft into a stored record.
func (d NotificationDraft) Materialize(id string, at time.Time) Notification {
	return Notification{
		ID:            id,
		Type:          d.Type,
		Title:         d.Title,
		Message:       d.Message,
		Timestamp:     at,
		Read:          false,
		TransactionID: d.TransactionID,
		Change:        d.Change,
		BeforeState:   d.BeforeState,
		AfterState:    d.AfterState,
	}
}

// TransactionChange returns the tagged change carried by n.
func (n Notification) TransactionChange() (Change, error) {
	if n.TransactionID == "" || n.Change == ChangeNone {
		return nil, ErrNotTransactionLinked
	}
	return NewChange(n.Change, n.BeforeState, n.AfterState)
}

// NotificationFilter selects which notifications a listing returns.
type NotificationFilter string

const (
	FilterAll     NotificationFilter = "all"
	FilterUnread  NotificationFilter = "unread"
	FilterSuccess NotificationFilter = NotificationFilter(NotificationSuccess)
	FilterWarning NotificationFilter = NotificationFilter(NotificationWarning)
	FilterInfo    NotificationFilter = NotificationFilter(NotificationInfo)
)

// ParseNotificationFilter maps a query value onto a filter; empty means all.
func ParseNotificationFilter(raw string) (NotificationFilter, error) {
	switch f := NotificationFilter(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterUnread, FilterSuccess, FilterWarning, FilterInfo:
		return f, nil
	default:
		return "", fmt.Errorf("unknown notification filter %q", raw)
	}
}

// Matches reports whether n passes the filter.
func (f NotificationFilter) Matches(n Notification) bool {
	switch f {
	case FilterAll, "":
		return true
	case FilterUnread:
		return !n.Read
	default:
		return string(n.Type) == string(f)
	}
}
