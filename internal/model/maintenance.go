package model

import "time"

// IssueCategory classifies a maintenance issue.
type IssueCategory string

const (
	IssueElectrical IssueCategory = "electrical"
	IssuePlumbing   IssueCategory = "plumbing"
	IssueFurniture  IssueCategory = "furniture"
	IssueCleaning   IssueCategory = "cleaning"
	IssueIT         IssueCategory = "it"
	IssueOther      IssueCategory = "other"
)

// IssuePriority ranks how urgently an issue needs attention.
type IssuePriority string

const (
	PriorityLow    IssuePriority = "low"
	PriorityMedium IssuePriority = "medium"
	PriorityHigh   IssuePriority = "high"
	PriorityUrgent IssuePriority = "urgent"
)

// IssueStatus is the lifecycle state of a maintenance issue.
type IssueStatus string

const (
	IssueReported   IssueStatus = "reported"
	IssueAssigned   IssueStatus = "assigned"
	IssueInProgress IssueStatus = "in-progress"
	IssueResolved   IssueStatus = "resolved"
	IssueClosed     IssueStatus = "closed"
)

// MaintenanceIssue represents a reported problem in a room.
type MaintenanceIssue struct {
	ID          string        `gorm:"primaryKey;size:36"`
	ReporterID  string        `gorm:"index;size:36;not null"`
	RoomID      string        `gorm:"index;size:36;not null"`
	Title       string        `gorm:"size:256;not null"`
	Description string        `gorm:"size:2048"`
	Category    IssueCategory `gorm:"size:32;not null"`
	Priority    IssuePriority `gorm:"size:16;not null"`
	Status      IssueStatus   `gorm:"size:16;not null"`
	AssigneeID  *string       `gorm:"size:36"`
	ReportedAt  time.Time     `gorm:"not null"`
	ResolvedAt  *time.Time
	UpdatedAt   time.Time

	// Associations
	Room Room `gorm:"constraint:OnDelete:CASCADE"`
}
