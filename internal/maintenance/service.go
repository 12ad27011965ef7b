// Package maintenance manages the lifecycle of reported room issues.
package maintenance

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"campus-services-backend/internal/auth"
	"campus-services-backend/internal/model"
	"campus-services-backend/internal/store"
)

// Notifier delivers a notification to a user about an issue event.
type Notifier interface {
	Create(ctx context.Context, n *model.Notification) error
}

// allowedTransitions are the permitted issue lifecycle edges. Closing is
// possible from any non-terminal state; closed is terminal.
var allowedTransitions = map[model.IssueStatus]map[model.IssueStatus]bool{
	model.IssueReported: {
		model.IssueAssigned: true,
		model.IssueClosed:   true,
	},
	model.IssueAssigned: {
		model.IssueInProgress: true,
		model.IssueClosed:     true,
	},
	model.IssueInProgress: {
		model.IssueResolved: true,
		model.IssueClosed:   true,
	},
	model.IssueResolved: {
		model.IssueClosed: true,
	},
}

var validCategories = map[model.IssueCategory]bool{
	model.IssueElectrical: true,
	model.IssuePlumbing:   true,
	model.IssueFurniture:  true,
	model.IssueCleaning:   true,
	model.IssueIT:         true,
	model.IssueOther:      true,
}

var validPriorities = map[model.IssuePriority]bool{
	model.PriorityLow:    true,
	model.PriorityMedium: true,
	model.PriorityHigh:   true,
	model.PriorityUrgent: true,
}

// Service orchestrates issue reporting and status transitions.
type Service struct {
	store    store.Store
	notifier Notifier
	now      func() time.Time
}

// NewService wires the maintenance service. notifier may be nil.
func NewService(s store.Store, notifier Notifier) *Service {
	return &Service{store: s, notifier: notifier, now: time.Now}
}

// ReportInput carries a new issue report.
type ReportInput struct {
	ReporterID  string
	RoomID      string
	Title       string
	Description string
	Category    model.IssueCategory
	Priority    model.IssuePriority
}

// Report validates and stores a new issue in the reported state.
func (s *Service) Report(ctx context.Context, input ReportInput) (model.MaintenanceIssue, error) {
	if strings.TrimSpace(input.ReporterID) == "" || strings.TrimSpace(input.RoomID) == "" {
		return model.MaintenanceIssue{}, fmt.Errorf("%w: reporter and room are required", model.ErrValidation)
	}
	if strings.TrimSpace(input.Title) == "" {
		return model.MaintenanceIssue{}, fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	if !validCategories[input.Category] {
		return model.MaintenanceIssue{}, fmt.Errorf("%w: unknown category %q", model.ErrValidation, input.Category)
	}
	if !validPriorities[input.Priority] {
		return model.MaintenanceIssue{}, fmt.Errorf("%w: unknown priority %q", model.ErrValidation, input.Priority)
	}

	if _, err := s.store.GetRoom(ctx, input.RoomID); err != nil {
		return model.MaintenanceIssue{}, err
	}

	issue := model.MaintenanceIssue{
		ID:          uuid.New().String(),
		ReporterID:  input.ReporterID,
		RoomID:      input.RoomID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      model.IssueReported,
		ReportedAt:  s.now().UTC(),
	}
	if err := s.store.CreateIssue(ctx, &issue); err != nil {
		return model.MaintenanceIssue{}, err
	}
	return issue, nil
}

// Get returns an issue by id.
func (s *Service) Get(ctx context.Context, id string) (model.MaintenanceIssue, error) {
	return s.store.GetIssue(ctx, id)
}

// List returns issues matching the filter.
func (s *Service) List(ctx context.Context, filter store.IssueFilter) ([]model.MaintenanceIssue, error) {
	return s.store.ListIssues(ctx, filter)
}

// Transition moves an issue along a permitted edge on behalf of actor,
// which requires the manage-maintenance capability. Moving to assigned
// requires an assignee; moving to resolved stamps the resolution time.
func (s *Service) Transition(ctx context.Context, id string, to model.IssueStatus, assigneeID string, actor model.User) (model.MaintenanceIssue, error) {
	if !auth.Can(actor.Role, auth.CapManageMaintenance) {
		return model.MaintenanceIssue{}, fmt.Errorf("update an issue: %w", model.ErrForbidden)
	}

	issue, err := s.store.GetIssue(ctx, id)
	if err != nil {
		return model.MaintenanceIssue{}, err
	}
	if !allowedTransitions[issue.Status][to] {
		return model.MaintenanceIssue{}, fmt.Errorf("issue %s: %s -> %s: %w",
			issue.ID, issue.Status, to, model.ErrInvalidTransition)
	}

	var assignee *string
	if to == model.IssueAssigned {
		if strings.TrimSpace(assigneeID) == "" {
			return model.MaintenanceIssue{}, fmt.Errorf("%w: assigning an issue requires an assignee", model.ErrValidation)
		}
		assignee = &assigneeID
	}

	var resolvedAt *time.Time
	if to == model.IssueResolved {
		now := s.now().UTC()
		resolvedAt = &now
	}

	if err := s.store.UpdateIssueStatus(ctx, issue.ID, issue.Status, to, assignee, resolvedAt); err != nil {
		return model.MaintenanceIssue{}, err
	}

	issue.Status = to
	if assignee != nil {
		issue.AssigneeID = assignee
	}
	if resolvedAt != nil {
		issue.ResolvedAt = resolvedAt
	}

	s.notifyReporter(ctx, issue, to)
	return issue, nil
}

func (s *Service) notifyReporter(ctx context.Context, issue model.MaintenanceIssue, to model.IssueStatus) {
	if s.notifier == nil {
		return
	}
	n := model.Notification{
		UserID:  issue.ReporterID,
		Title:   "Maintenance issue updated",
		Message: fmt.Sprintf("Your issue %q is now %s.", issue.Title, to),
		Kind:    model.NotifyInfo,
		Link:    "/maintenance/" + issue.ID,
	}
	if err := s.notifier.Create(ctx, &n); err != nil {
		log.Printf("Failed to notify reporter %s about issue %s: %v", issue.ReporterID, issue.ID, err)
	}
}
