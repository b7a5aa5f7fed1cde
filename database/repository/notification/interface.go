package notificationRepo

import (
	"context"
	"errors"
	"time"

	"finzo/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no notification has the requested id.
var ErrNotFound = errors.New("notification not found")

// NotificationRepository is the ordered notification log, newest first.
// Every method is atomic with respect to concurrent readers.
type NotificationRepository interface {
	// Append inserts n at the head of the log. Missing id and timestamp are
	// assigned; read always starts false.
	Append(ctx context.Context, n models.Notification) (*models.Notification, error)
	List(ctx context.Context) ([]models.Notification, error)
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	SetRead(ctx context.Context, id string, read bool) (*models.Notification, error)
	MarkAllRead(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

// prepare fills the fields the store owns.
func prepare(n models.Notification) models.Notification {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	}
	n.Read = false
	return n
}
