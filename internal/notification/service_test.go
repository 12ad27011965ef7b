package notification

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

func newTestService(t *testing.T) *Service {
	t.Helper()
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(testDB))
	return NewService(store.NewGormStore(testDB), nil)
}

func TestService_Create_Defaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	n := model.Notification{UserID: "u1", Title: "Hello", Message: "m", Read: true}
	require.NoError(t, svc.Create(ctx, &n))

	assert.NotEmpty(t, n.ID)
	assert.Equal(t, model.NotifyInfo, n.Kind)
	// New notifications always start unread, whatever the caller set.
	assert.False(t, n.Read)
	assert.False(t, n.CreatedAt.IsZero())
}

func TestService_Create_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	err := svc.Create(ctx, &model.Notification{Title: "no user"})
	assert.ErrorIs(t, err, model.ErrValidation)

	err = svc.Create(ctx, &model.Notification{UserID: "u1"})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestService_ReadStateMachine(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		n := model.Notification{UserID: "u1", Title: "t", Message: "m"}
		require.NoError(t, svc.Create(ctx, &n))
		ids = append(ids, n.ID)
	}

	count, err := svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	// unread -> read is one-way and idempotent.
	require.NoError(t, svc.MarkRead(ctx, ids[0]))
	require.NoError(t, svc.MarkRead(ctx, ids[0]))
	count, err = svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, svc.MarkAllRead(ctx, "u1"))
	count, err = svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// Delete is permanent; the id stops resolving entirely.
	require.NoError(t, svc.Delete(ctx, ids[1]))
	assert.ErrorIs(t, svc.Delete(ctx, ids[1]), model.ErrNotFound)
	assert.ErrorIs(t, svc.MarkRead(ctx, ids[1]), model.ErrNotFound)

	remaining, err := svc.ListForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestService_ListForUser_ScopedToOwner(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, &model.Notification{UserID: "u1", Title: "mine", Message: "m"}))
	require.NoError(t, svc.Create(ctx, &model.Notification{UserID: "u2", Title: "theirs", Message: "m"}))

	mine, err := svc.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "mine", mine[0].Title)

	count, err := svc.UnreadCount(ctx, "u2")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
