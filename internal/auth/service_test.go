package auth

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

func newTestService(t *testing.T) *Service {
	t.Helper()
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(testDB))
	return NewService(store.NewGormStore(testDB), "test-secret", time.Hour)
}

func TestService_RegisterAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Name: "Ada Lovelace", Email: "Ada@Campus.EDU",
		Password: "correct horse", Role: model.RoleLecturer,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	// Emails are stored lowercased so lookups are case-insensitive.
	assert.Equal(t, "ada@campus.edu", user.Email)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	token, loggedIn, err := svc.Login(ctx, "ADA@campus.edu", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	require.NotEmpty(t, token)

	resolved, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, model.RoleLecturer, resolved.Role)
}

func TestService_Register_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	testCases := []struct {
		name  string
		input RegisterInput
	}{
		{name: "missing name", input: RegisterInput{Email: "a@b.c", Password: "long enough", Role: model.RoleStudent}},
		{name: "missing email", input: RegisterInput{Name: "A", Password: "long enough", Role: model.RoleStudent}},
		{name: "malformed email", input: RegisterInput{Name: "A", Email: "not-an-email", Password: "long enough", Role: model.RoleStudent}},
		{name: "short password", input: RegisterInput{Name: "A", Email: "a@b.c", Password: "short", Role: model.RoleStudent}},
		{name: "unknown role", input: RegisterInput{Name: "A", Email: "a@b.c", Password: "long enough", Role: "dean"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.input)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	in := RegisterInput{Name: "A", Email: "a@b.c", Password: "long enough", Role: model.RoleStudent}
	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	in.Name = "Another A"
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, model.ErrEmailTaken)
}

// Unknown emails and wrong passwords come back as the same error.
func TestService_Login_UniformFailure(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Name: "A", Email: "a@b.c", Password: "long enough", Role: model.RoleStudent,
	})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "a@b.c", "wrong password")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "ghost@b.c", "long enough")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestService_Authenticate_RejectsBadTokens(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Name: "A", Email: "a@b.c", Password: "long enough", Role: model.RoleStudent,
	})
	require.NoError(t, err)

	// Garbage token.
	_, err = svc.Authenticate(ctx, "not.a.token")
	assert.Error(t, err)

	// Token signed with a different secret.
	forged, err := IssueToken([]byte("other-secret"), user, time.Hour, time.Now())
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, forged)
	assert.Error(t, err)

	// Expired token.
	expired, err := IssueToken([]byte("test-secret"), user, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, expired)
	assert.Error(t, err)
}
