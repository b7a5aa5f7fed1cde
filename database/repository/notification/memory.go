package notificationRepo

import (
	"context"
	"sync"

	"finzo/models"
)

type memoryNotificationRepo struct {
	mu    sync.RWMutex
	items []models.Notification // newest first
}

// NewMemoryNotificationRepo returns a process-lifetime repository.
func NewMemoryNotificationRepo() NotificationRepository {
	return &memoryNotificationRepo{}
}

func (r *memoryNotificationRepo) Append(_ context.Context, n models.Notification) (*models.Notification, error) {
	n = prepare(n)
	stored := clone(n)

	r.mu.Lock()
	r.items = append([]models.Notification{stored}, r.items...)
	r.mu.Unlock()

	return &n, nil
}

func (r *memoryNotificationRepo) List(_ context.Context) ([]models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Notification, len(r.items))
	for i, n := range r.items {
		out[i] = clone(n)
	}
	return out, nil
}

func (r *memoryNotificationRepo) GetByID(_ context.Context, id string) (*models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	n := clone(r.items[i])
	return &n, nil
}

func (r *memoryNotificationRepo) SetRead(_ context.Context, id string, read bool) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	r.items[i].Read = read
	n := clone(r.items[i])
	return &n, nil
}

func (r *memoryNotificationRepo) MarkAllRead(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated := 0
	for i := range r.items {
		if !r.items[i].Read {
			r.items[i].Read = true
			updated++
		}
	}
	return updated, nil
}

func (r *memoryNotificationRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	r.items = append(r.items[:i:i], r.items[i+1:]...)
	return nil
}

func (r *memoryNotificationRepo) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	r.items = nil
	r.mu.Unlock()
	return nil
}

// indexOf must be called with the lock held.
func (r *memoryNotificationRepo) indexOf(id string) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}

// clone copies the snapshot pointers so callers never share state with the log.
func clone(n models.Notification) models.Notification {
	if n.BeforeState != nil {
		s := n.BeforeState.Clone()
		n.BeforeState = &s
	}
	if n.AfterState != nil {
		s := n.AfterState.Clone()
		n.AfterState = &s
	}
	return n
}
