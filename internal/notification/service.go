package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"campus-services-backend/internal/model"
	"campus-services-backend/internal/store"
)

// Service owns the per-user notification set and its read/unread state
// machine: unread -> read is one-way and idempotent, delete is permanent,
// and the unread count is always recomputed from the stored set.
type Service struct {
	store store.Store
	pool  *WorkerPool // nil when push delivery is disabled
	now   func() time.Time
}

// NewService wires the notification service. pool may be nil.
func NewService(s store.Store, pool *WorkerPool) *Service {
	return &Service{store: s, pool: pool, now: time.Now}
}

// Create stores a new unread notification and hands it to the push worker
// pool when one is configured.
func (s *Service) Create(ctx context.Context, n *model.Notification) error {
	if strings.TrimSpace(n.UserID) == "" || strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("%w: notification requires a user and a title", model.ErrValidation)
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Kind == "" {
		n.Kind = model.NotifyInfo
	}
	n.Read = false
	n.CreatedAt = s.now().UTC()

	if err := s.store.CreateNotification(ctx, n); err != nil {
		return err
	}
	if s.pool != nil {
		s.pool.Dispatch(n.ID)
	}
	return nil
}

// ListForUser returns the user's notifications, newest first. Re-fetching
// never duplicates records; the store set is the single source.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]model.Notification, error) {
	return s.store.ListNotifications(ctx, userID)
}

// MarkRead transitions a notification to read. Already-read is a no-op.
func (s *Service) MarkRead(ctx context.Context, id string) error {
	return s.store.MarkNotificationRead(ctx, id)
}

// MarkAllRead transitions every unread notification owned by the user.
func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.store.MarkAllNotificationsRead(ctx, userID)
}

// Delete removes a notification permanently, regardless of read state.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteNotification(ctx, id)
}

// UnreadCount returns the number of unread notifications the user owns.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.store.UnreadNotificationCount(ctx, userID)
}
