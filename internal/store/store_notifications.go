package store

import (
	"context"
	"fmt"

	"campus-services-backend/internal/model"
)

func (s *gormStore) CreateNotification(ctx context.Context, n *model.Notification) error {
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (s *gormStore) GetNotification(ctx context.Context, id string) (model.Notification, error) {
	var n model.Notification
	if err := s.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return model.Notification{}, translateNotFound(err, "notification %s", id)
	}
	return n, nil
}

func (s *gormStore) ListNotifications(ctx context.Context, userID string) ([]model.Notification, error) {
	var notifications []model.Notification
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("list notifications for user %s: %w", userID, err)
	}
	return notifications, nil
}

// MarkNotificationRead flips a notification to read. Marking an already
// read notification again is a no-op, not an error; an unknown id fails
// with ErrNotFound.
func (s *gormStore) MarkNotificationRead(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ?", id).
		Update("read", true)
	if res.Error != nil {
		return fmt.Errorf("mark notification %s read: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("notification %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// MarkAllNotificationsRead transitions every unread notification owned by
// the user in a single statement.
func (s *gormStore) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	err := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
	if err != nil {
		return fmt.Errorf("mark all notifications read for user %s: %w", userID, err)
	}
	return nil
}

func (s *gormStore) DeleteNotification(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.Notification{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete notification %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("notification %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// UnreadNotificationCount recomputes the count from the source set on
// every call; there is no cached counter to drift.
func (s *gormStore) UnreadNotificationCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count unread notifications for user %s: %w", userID, err)
	}
	return count, nil
}
