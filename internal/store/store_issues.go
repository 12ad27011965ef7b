package store

import (
	"context"
	"fmt"
	"time"

	"campus-services-backend/internal/model"
)

// IssueFilter narrows ListIssues queries.
type IssueFilter struct {
	ReporterID string
	RoomID     string
	Statuses   []model.IssueStatus
}

func (s *gormStore) CreateIssue(ctx context.Context, issue *model.MaintenanceIssue) error {
	if err := s.db.WithContext(ctx).Create(issue).Error; err != nil {
		return fmt.Errorf("insert issue: %w", err)
	}
	return nil
}

func (s *gormStore) GetIssue(ctx context.Context, id string) (model.MaintenanceIssue, error) {
	var issue model.MaintenanceIssue
	if err := s.db.WithContext(ctx).First(&issue, "id = ?", id).Error; err != nil {
		return model.MaintenanceIssue{}, translateNotFound(err, "issue %s", id)
	}
	return issue, nil
}

func (s *gormStore) ListIssues(ctx context.Context, filter IssueFilter) ([]model.MaintenanceIssue, error) {
	q := s.db.WithContext(ctx).Model(&model.MaintenanceIssue{})
	if filter.ReporterID != "" {
		q = q.Where("reporter_id = ?", filter.ReporterID)
	}
	if filter.RoomID != "" {
		q = q.Where("room_id = ?", filter.RoomID)
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}

	var issues []model.MaintenanceIssue
	if err := q.Order("reported_at DESC").Find(&issues).Error; err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	return issues, nil
}

// UpdateIssueStatus moves an issue between statuses with the same
// conditional UPDATE pattern as bookings. The assignee and resolution
// timestamp travel with the status change so the record is consistent.
func (s *gormStore) UpdateIssueStatus(ctx context.Context, id string, from, to model.IssueStatus, assigneeID *string, resolvedAt *time.Time) error {
	updates := map[string]any{"status": to}
	if assigneeID != nil {
		updates["assignee_id"] = *assigneeID
	}
	if resolvedAt != nil {
		updates["resolved_at"] = *resolvedAt
	}

	res := s.db.WithContext(ctx).Model(&model.MaintenanceIssue{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update issue %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.MaintenanceIssue{}).
			Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("update issue %s: %w", id, err)
		}
		if count == 0 {
			return fmt.Errorf("issue %s: %w", id, model.ErrNotFound)
		}
		return fmt.Errorf("issue %s is no longer %s: %w", id, from, model.ErrInvalidTransition)
	}
	return nil
}
