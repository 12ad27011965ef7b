package maintenance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"campus-services-backend/internal/db"
	"campus-services-backend/internal/model"
	"campus-services-backend/internal/store"
)

type notifierSpy struct {
	notes []model.Notification
}

func (n *notifierSpy) Create(_ context.Context, note *model.Notification) error {
	n.notes = append(n.notes, *note)
	return nil
}

func newTestService(t *testing.T) (*Service, store.Store, *notifierSpy) {
	t.Helper()
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(testDB))

	s := store.NewGormStore(testDB)
	require.NoError(t, s.DB().Create(&model.Room{
		ID: "room-1", Name: "Lab 2", Capacity: 20,
		Building: "Science", Floor: 2, Category: model.RoomLab,
	}).Error)

	spy := &notifierSpy{}
	return NewService(s, spy), s, spy
}

func TestService_Report(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	issue, err := svc.Report(ctx, ReportInput{
		ReporterID: "u1", RoomID: "room-1", Title: "Projector flickers",
		Description: "Flickers after ten minutes.",
		Category:    model.IssueIT, Priority: model.PriorityMedium,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, issue.ID)
	assert.Equal(t, model.IssueReported, issue.Status)
	assert.False(t, issue.ReportedAt.IsZero())
	assert.Nil(t, issue.AssigneeID)
}

func TestService_Report_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	valid := ReportInput{
		ReporterID: "u1", RoomID: "room-1", Title: "t",
		Category: model.IssueOther, Priority: model.PriorityLow,
	}

	testCases := []struct {
		name    string
		mutate  func(*ReportInput)
		wantErr error
	}{
		{name: "missing reporter", mutate: func(in *ReportInput) { in.ReporterID = "" }, wantErr: model.ErrValidation},
		{name: "missing title", mutate: func(in *ReportInput) { in.Title = " " }, wantErr: model.ErrValidation},
		{name: "unknown category", mutate: func(in *ReportInput) { in.Category = "hvac" }, wantErr: model.ErrValidation},
		{name: "unknown priority", mutate: func(in *ReportInput) { in.Priority = "critical" }, wantErr: model.ErrValidation},
		{name: "unknown room", mutate: func(in *ReportInput) { in.RoomID = "missing" }, wantErr: model.ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			_, err := svc.Report(ctx, in)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestService_Transition(t *testing.T) {
	admin := model.User{ID: "admin-1", Role: model.RoleAdmin}
	ctx := context.Background()

	svc, s, spy := newTestService(t)
	issue, err := svc.Report(ctx, ReportInput{
		ReporterID: "u1", RoomID: "room-1", Title: "Leaking tap",
		Category: model.IssuePlumbing, Priority: model.PriorityHigh,
	})
	require.NoError(t, err)

	// Assigning without an assignee is rejected.
	_, err = svc.Transition(ctx, issue.ID, model.IssueAssigned, "", admin)
	assert.ErrorIs(t, err, model.ErrValidation)

	issue, err = svc.Transition(ctx, issue.ID, model.IssueAssigned, "staff-1", admin)
	require.NoError(t, err)
	require.NotNil(t, issue.AssigneeID)
	assert.Equal(t, "staff-1", *issue.AssigneeID)

	// Skipping ahead to resolved is not a permitted edge.
	_, err = svc.Transition(ctx, issue.ID, model.IssueResolved, "", admin)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	issue, err = svc.Transition(ctx, issue.ID, model.IssueInProgress, "", admin)
	require.NoError(t, err)

	issue, err = svc.Transition(ctx, issue.ID, model.IssueResolved, "", admin)
	require.NoError(t, err)
	assert.NotNil(t, issue.ResolvedAt)

	issue, err = svc.Transition(ctx, issue.ID, model.IssueClosed, "", admin)
	require.NoError(t, err)

	// Closed is terminal.
	_, err = svc.Transition(ctx, issue.ID, model.IssueAssigned, "staff-1", admin)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	// Every transition told the reporter.
	assert.Len(t, spy.notes, 4)
	for _, n := range spy.notes {
		assert.Equal(t, "u1", n.UserID)
	}

	stored, err := s.GetIssue(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, model.IssueClosed, stored.Status)
}

func TestService_Transition_RequiresCapability(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	issue, err := svc.Report(ctx, ReportInput{
		ReporterID: "u1", RoomID: "room-1", Title: "t",
		Category: model.IssueOther, Priority: model.PriorityLow,
	})
	require.NoError(t, err)

	for _, role := range []model.Role{model.RoleStudent, model.RoleLecturer} {
		_, err := svc.Transition(ctx, issue.ID, model.IssueClosed, "", model.User{ID: "u2", Role: role})
		assert.ErrorIs(t, err, model.ErrForbidden, "role %s", role)
	}
}
