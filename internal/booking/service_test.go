package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"campus-services-backend/internal/db"
	"campus-services-backend/internal/model"
	"campus-services-backend/internal/store"
)

// notifierSpy records notifications instead of delivering them.
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
	spy := &notifierSpy{}
	return NewService(s, spy), s, spy
}

func seedRoom(t *testing.T, s store.Store, id string, capacity int) {
	t.Helper()
	require.NoError(t, s.DB().Create(&model.Room{
		ID: id, Name: "Room " + id, Capacity: capacity,
		Building: "Main", Floor: 2, Category: model.RoomMeeting,
	}).Error)
}

func TestService_Create_Validation(t *testing.T) {
	svc, s, _ := newTestService(t)
	seedRoom(t, s, "room-1", 4)

	valid := CreateInput{
		RoomID: "room-1", UserID: "user-1", Date: "2024-01-10",
		StartTime: "10:00", EndTime: "11:00", Purpose: "study group", Attendees: 3,
	}

	testCases := []struct {
		name    string
		mutate  func(*CreateInput)
		wantErr error
	}{
		{name: "missing room", mutate: func(in *CreateInput) { in.RoomID = "" }, wantErr: model.ErrValidation},
		{name: "missing purpose", mutate: func(in *CreateInput) { in.Purpose = "  " }, wantErr: model.ErrValidation},
		{name: "malformed date", mutate: func(in *CreateInput) { in.Date = "10/01/2024" }, wantErr: model.ErrValidation},
		{name: "malformed time", mutate: func(in *CreateInput) { in.StartTime = "9:00" }, wantErr: model.ErrValidation},
		{name: "end before start", mutate: func(in *CreateInput) { in.StartTime = "11:00"; in.EndTime = "10:00" }, wantErr: model.ErrValidation},
		{name: "end equals start", mutate: func(in *CreateInput) { in.EndTime = in.StartTime }, wantErr: model.ErrValidation},
		{name: "zero attendees", mutate: func(in *CreateInput) { in.Attendees = 0 }, wantErr: model.ErrValidation},
		{name: "over capacity", mutate: func(in *CreateInput) { in.Attendees = 5 }, wantErr: model.ErrValidation},
		{name: "unknown room", mutate: func(in *CreateInput) { in.RoomID = "missing" }, wantErr: model.ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			_, err := svc.Create(context.Background(), in)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestService_Create(t *testing.T) {
	svc, s, spy := newTestService(t)
	seedRoom(t, s, "room-1", 10)
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateInput{
		RoomID: "room-1", UserID: "user-1", Date: "2024-01-10",
		StartTime: "10:00", EndTime: "11:00", Purpose: "seminar", Attendees: 6,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, model.BookingPending, b.Status)

	// The requester is told their request is in.
	require.Len(t, spy.notes, 1)
	assert.Equal(t, "user-1", spy.notes[0].UserID)
	assert.Equal(t, model.NotifyInfo, spy.notes[0].Kind)

	// A second booking over the same slot conflicts even though it is
	// only pending.
	_, err = svc.Create(ctx, CreateInput{
		RoomID: "room-1", UserID: "user-2", Date: "2024-01-10",
		StartTime: "10:30", EndTime: "11:30", Purpose: "meeting", Attendees: 2,
	})
	assert.ErrorIs(t, err, model.ErrConflict)

	// An abutting slot goes through.
	_, err = svc.Create(ctx, CreateInput{
		RoomID: "room-1", UserID: "user-2", Date: "2024-01-10",
		StartTime: "11:00", EndTime: "12:00", Purpose: "meeting", Attendees: 2,
	})
	assert.NoError(t, err)
}

func TestService_Transition(t *testing.T) {
	admin := model.User{ID: "admin-1", Role: model.RoleAdmin}
	owner := model.User{ID: "user-1", Role: model.RoleStudent}
	stranger := model.User{ID: "user-2", Role: model.RoleStudent}

	testCases := []struct {
		name       string
		from       model.BookingStatus
		to         model.BookingStatus
		actor      model.User
		wantErr    error
		wantNotify model.NotificationKind
	}{
		{name: "admin approves pending", from: model.BookingPending, to: model.BookingApproved, actor: admin, wantNotify: model.NotifySuccess},
		{name: "admin rejects pending", from: model.BookingPending, to: model.BookingRejected, actor: admin, wantNotify: model.NotifyError},
		{name: "owner cancels pending", from: model.BookingPending, to: model.BookingCancelled, actor: owner, wantNotify: model.NotifyInfo},
		{name: "owner cancels approved", from: model.BookingApproved, to: model.BookingCancelled, actor: owner, wantNotify: model.NotifyInfo},
		{name: "admin cancels someone else's booking", from: model.BookingApproved, to: model.BookingCancelled, actor: admin, wantNotify: model.NotifyInfo},
		{name: "student cannot approve", from: model.BookingPending, to: model.BookingApproved, actor: owner, wantErr: model.ErrForbidden},
		{name: "stranger cannot cancel", from: model.BookingPending, to: model.BookingCancelled, actor: stranger, wantErr: model.ErrForbidden},
		{name: "rejected is terminal", from: model.BookingRejected, to: model.BookingApproved, actor: admin, wantErr: model.ErrInvalidTransition},
		{name: "cancelled is terminal", from: model.BookingCancelled, to: model.BookingApproved, actor: admin, wantErr: model.ErrInvalidTransition},
		{name: "approved cannot be re-approved", from: model.BookingApproved, to: model.BookingApproved, actor: admin, wantErr: model.ErrInvalidTransition},
		{name: "unknown status", from: model.BookingPending, to: model.BookingStatus("frozen"), actor: admin, wantErr: model.ErrValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, s, spy := newTestService(t)
			seedRoom(t, s, "room-1", 10)
			require.NoError(t, s.DB().Create(&model.Booking{
				ID: "b1", RoomID: "room-1", UserID: owner.ID,
				Date: "2024-01-10", StartTime: "10:00", EndTime: "11:00",
				Purpose: "x", Attendees: 1, Status: tc.from,
			}).Error)

			b, err := svc.Transition(context.Background(), "b1", tc.to, tc.actor)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				stored, getErr := s.GetBooking(context.Background(), "b1")
				require.NoError(t, getErr)
				assert.Equal(t, tc.from, stored.Status, "a failed transition must not change the record")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.to, b.Status)
			require.Len(t, spy.notes, 1)
			assert.Equal(t, owner.ID, spy.notes[0].UserID)
			assert.Equal(t, tc.wantNotify, spy.notes[0].Kind)
		})
	}
}

func TestService_Transition_UnknownBooking(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Transition(context.Background(), "missing", model.BookingApproved,
		model.User{ID: "admin-1", Role: model.RoleAdmin})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestService_CheckAvailability(t *testing.T) {
	svc, s, _ := newTestService(t)
	seedRoom(t, s, "room-1", 10)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{
		RoomID: "room-1", UserID: "user-1", Date: "2024-01-10",
		StartTime: "10:00", EndTime: "11:00", Purpose: "x", Attendees: 1,
	})
	require.NoError(t, err)

	free, err := svc.CheckAvailability(ctx, "room-1", "2024-01-10", "10:30", "11:30")
	require.NoError(t, err)
	assert.False(t, free)

	free, err = svc.CheckAvailability(ctx, "room-1", "2024-01-10", "11:00", "12:00")
	require.NoError(t, err)
	assert.True(t, free)

	_, err = svc.CheckAvailability(ctx, "room-1", "2024-01-10", "25:00", "26:00")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestService_ExpireStalePending(t *testing.T) {
	svc, s, spy := newTestService(t)
	seedRoom(t, s, "room-1", 10)
	ctx := context.Background()
	loc := time.UTC

	now := time.Date(2024, 1, 10, 12, 0, 0, 0, loc)
	svc.now = func() time.Time { return now }

	seed := []struct {
		id        string
		createdAt time.Time
		date      string
		end       string
		status    model.BookingStatus
	}{
		// Requested two hours ago, never decided.
		{id: "stale", createdAt: now.Add(-2 * time.Hour), date: "2024-01-11", end: "11:00", status: model.BookingPending},
		// Fresh, but for a slot that already ended.
		{id: "slot-passed", createdAt: now.Add(-5 * time.Minute), date: "2024-01-10", end: "09:00", status: model.BookingPending},
		// Fresh and still upcoming.
		{id: "fresh", createdAt: now.Add(-5 * time.Minute), date: "2024-01-11", end: "11:00", status: model.BookingPending},
		// Already decided bookings are never touched.
		{id: "approved", createdAt: now.Add(-2 * time.Hour), date: "2024-01-11", end: "11:00", status: model.BookingApproved},
	}
	for _, b := range seed {
		require.NoError(t, s.DB().Create(&model.Booking{
			ID: b.id, RoomID: "room-1", UserID: "user-1",
			Date: b.date, StartTime: "08:00", EndTime: b.end,
			Purpose: "x", Attendees: 1, Status: b.status,
			CreatedAt: b.createdAt,
		}).Error)
	}

	expired, err := svc.ExpireStalePending(ctx, time.Hour, loc)
	require.NoError(t, err)
	assert.Equal(t, 2, expired)

	for id, want := range map[string]model.BookingStatus{
		"stale":       model.BookingRejected,
		"slot-passed": model.BookingRejected,
		"fresh":       model.BookingPending,
		"approved":    model.BookingApproved,
	} {
		b, err := s.GetBooking(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, b.Status, "booking %s", id)
	}

	assert.Len(t, spy.notes, 2)
	for _, n := range spy.notes {
		assert.Equal(t, model.NotifyWarning, n.Kind)
	}
}
