package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	notificationRepo "finzo/database/repository/notification"
	"finzo/models"

	"go.uber.org/zap"
)

// ErrNotificationNotFound is returned when no notification has the requested id.
var ErrNotificationNotFound = notificationRepo.ErrNotFound

// NotificationService owns the notification log.
type NotificationService interface {
	Create(ctx context.Context, draft models.NotificationDraft) (*models.Notification, error)
	List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, error)
	Get(ctx context.Context, id string) (*models.Notification, error)
	SetRead(ctx context.Context, id string, read bool) (*models.Notification, error)
	MarkAllRead(ctx context.Context) (int, error)
	UnreadCount(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	repo   notificationRepo.NotificationRepository
	cache  ListCache
	logger *zap.Logger
}

// NewDefaultNotificationService wires the log to its repository. cache may be nil.
func NewDefaultNotificationService(
	repo notificationRepo.NotificationRepository,
	cache ListCache,
	logger *zap.Logger,
) (*DefaultNotificationService, error) {
	if repo == nil {
		return nil, fmt.Errorf("notification service initialization error: repository is nil")
	}
	if cache == nil {
		cache = NoopListCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultNotificationService{repo: repo, cache: cache, logger: logger}, nil
}

// Create validates the draft, derives its change tag and appends it.
func (s *DefaultNotificationService) Create(ctx context.Context, draft models.NotificationDraft) (*models.Notification, error) {
	if err := draft.Normalize(); err != nil {
		return nil, err
	}
	n, err := s.repo.Append(ctx, draft.Materialize("", time.Now().UTC()))
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}
	s.invalidate(ctx)
	return n, nil
}

func (s *DefaultNotificationService) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, error) {
	all, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	if filter == models.FilterAll || filter == "" {
		return all, nil
	}
	out := make([]models.Notification, 0, len(all))
	for _, n := range all {
		if filter.Matches(n) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *DefaultNotificationService) Get(ctx context.Context, id string) (*models.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrap("Get", err)
	}
	return n, nil
}

func (s *DefaultNotificationService) SetRead(ctx context.Context, id string, read bool) (*models.Notification, error) {
	n, err := s.repo.SetRead(ctx, id, read)
	if err != nil {
		return nil, wrap("SetRead", err)
	}
	s.invalidate(ctx)
	return n, nil
}

func (s *DefaultNotificationService) MarkAllRead(ctx context.Context) (int, error) {
	n, err := s.repo.MarkAllRead(ctx)
	if err != nil {
		return 0, fmt.Errorf("MarkAllRead: %w", err)
	}
	if n > 0 {
		s.invalidate(ctx)
	}
	return n, nil
}

func (s *DefaultNotificationService) UnreadCount(ctx context.Context) (int, error) {
	unread, err := s.List(ctx, models.FilterUnread)
	if err != nil {
		return 0, err
	}
	return len(unread), nil
}

func (s *DefaultNotificationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return wrap("Delete", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *DefaultNotificationService) DeleteAll(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("DeleteAll: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

// all serves the full log from the cache when possible. Cache failures are
// logged and fall through to the repository. The generation is read before the
// repository so a write that commits mid-read keeps the result out of the cache.
func (s *DefaultNotificationService) all(ctx context.Context) ([]models.Notification, error) {
	cached, ok, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.Warn("notification cache read failed", zap.Error(err))
	}
	if ok {
		return cached, nil
	}

	gen, genErr := s.cache.Generation(ctx)
	if genErr != nil {
		s.logger.Warn("notification cache generation read failed", zap.Error(genErr))
	}

	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	if genErr == nil {
		if err := s.cache.Set(ctx, gen, list); err != nil {
			s.logger.Warn("notification cache write failed", zap.Error(err))
		}
	}
	return list, nil
}

func (s *DefaultNotificationService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("notification cache invalidation failed", zap.Error(err))
	}
}

func wrap(op string, err error) error {
	if errors.Is(err, notificationRepo.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
