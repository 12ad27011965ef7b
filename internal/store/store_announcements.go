package store

import (
	"context"
	"fmt"
	"time"

	"campus-services-backend/internal/model"
)

func (s *gormStore) CreateAnnouncement(ctx context.Context, a *model.Announcement) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("insert announcement: %w", err)
	}
	return nil
}

// ListAnnouncements returns announcements addressed to the given role that
// have not yet expired, newest first. The audience column is a small
// comma-separated role list, so the role match happens in Go after the
// expiry filter runs in SQL.
func (s *gormStore) ListAnnouncements(ctx context.Context, role model.Role, now time.Time) ([]model.Announcement, error) {
	var all []model.Announcement
	err := s.db.WithContext(ctx).
		Where("published_at <= ?", now).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Order("important DESC, published_at DESC").
		Find(&all).Error
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}

	targeted := make([]model.Announcement, 0, len(all))
	for _, a := range all {
		if a.TargetsRole(role) {
			targeted = append(targeted, a)
		}
	}
	return targeted, nil
}
