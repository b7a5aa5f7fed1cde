package notificationRepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"finzo/models"

	"github.com/jmoiron/sqlx"
)

type sqliteNotificationRepo struct {
	db *sqlx.DB
}

// NewSQLiteNotificationRepo returns a repository backed by the notifications table.
func NewSQLiteNotificationRepo(db *sqlx.DB) NotificationRepository {
	return &sqliteNotificationRepo{db: db}
}

// notificationRow mirrors the notifications table. Snapshots are JSON blobs.
type notificationRow struct {
	Seq           int64          `db:"seq"`
	ID            string         `db:"id"`
	Type          string         `db:"type"`
	Title         string         `db:"title"`
	Message       string         `db:"message"`
	Timestamp     string         `db:"timestamp"`
	Read          bool           `db:"read"`
	TransactionID string         `db:"transaction_id"`
	ChangeKind    string         `db:"change_kind"`
	BeforeState   sql.NullString `db:"before_state"`
	AfterState    sql.NullString `db:"after_state"`
}

const selectNotification = `
	SELECT seq, id, type, title, message, timestamp, read,
	       transaction_id, change_kind, before_state, after_state
	FROM notifications`

func (r *sqliteNotificationRepo) Append(ctx context.Context, n models.Notification) (*models.Notification, error) {
	n = prepare(n)

	before, err := encodeSnapshot(n.BeforeState)
	if err != nil {
		return nil, err
	}
	after, err := encodeSnapshot(n.AfterState)
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO notifications (
			id, type, title, message, timestamp, read,
			transaction_id, change_kind, before_state, after_state
		) VALUES (?, ?, ?, ?, ?, 0, ?, ?, ?, ?)`,
		n.ID, string(n.Type), n.Title, n.Message, n.Timestamp.UTC().Format(time.RFC3339Nano),
		n.TransactionID, string(n.Change), before, after,
	)
	if err != nil {
		return nil, fmt.Errorf("creating notification: %w", err)
	}
	return &n, nil
}

func (r *sqliteNotificationRepo) List(ctx context.Context) ([]models.Notification, error) {
	var rows []notificationRow
	if err := r.db.SelectContext(ctx, &rows, selectNotification+" ORDER BY seq DESC"); err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}

	out := make([]models.Notification, 0, len(rows))
	for _, row := range rows {
		n, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *sqliteNotificationRepo) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	var row notificationRow
	err := r.db.GetContext(ctx, &row, selectNotification+" WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting notification %s: %w", id, err)
	}
	n, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *sqliteNotificationRepo) SetRead(ctx context.Context, id string, read bool) (*models.Notification, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE notifications SET read = ? WHERE id = ?", read, id)
	if err != nil {
		return nil, fmt.Errorf("marking notification %s read=%t: %w", id, read, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *sqliteNotificationRepo) MarkAllRead(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE notifications SET read = 1 WHERE read = 0")
	if err != nil {
		return 0, fmt.Errorf("marking all notifications read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting updated notifications: %w", err)
	}
	return int(n), nil
}

func (r *sqliteNotificationRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM notifications WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting notification %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqliteNotificationRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM notifications"); err != nil {
		return fmt.Errorf("clearing notifications: %w", err)
	}
	return nil
}

func (row notificationRow) toModel() (models.Notification, error) {
	ts, err := time.Parse(time.RFC3339Nano, row.Timestamp)
	if err != nil {
		return models.Notification{}, fmt.Errorf("parsing timestamp of notification %s: %w", row.ID, err)
	}
	before, err := decodeSnapshot(row.BeforeState)
	if err != nil {
		return models.Notification{}, fmt.Errorf("decoding beforeState of notification %s: %w", row.ID, err)
	}
	after, err := decodeSnapshot(row.AfterState)
	if err != nil {
		return models.Notification{}, fmt.Errorf("decoding afterState of notification %s: %w", row.ID, err)
	}
	return models.Notification{
		ID:            row.ID,
		Type:          models.NotificationType(row.Type),
		Title:         row.Title,
		Message:       row.Message,
		Timestamp:     ts,
		Read:          row.Read,
		TransactionID: row.TransactionID,
		Change:        models.ChangeKind(row.ChangeKind),
		BeforeState:   before,
		AfterState:    after,
	}, nil
}

func encodeSnapshot(s *models.TransactionSnapshot) (sql.NullString, error) {
	if s == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encoding snapshot: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeSnapshot(raw sql.NullString) (*models.TransactionSnapshot, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var s models.TransactionSnapshot
	if err := json.Unmarshal([]byte(raw.String), &s); err != nil {
		return nil, err
	}
	return &s, nil
}
