package service

import (
	"errors"
	"testing"

	"student_mgmt/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	env := newTestEnv()

	user, token, err := env.auth.Register(ctx, model.RegisterRequest{
		Username:    "bob",
		Email:       "b@x.com",
		Password:    "p1",
		DateOfBirth: ptr("2004-05-06"),
		Phone:       ptr(""),
	})

	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, user.Role)
	assert.True(t, user.HasUsablePassword())
	assert.NotEqual(t, "p1", user.PasswordHash)
	assert.Nil(t, user.Phone, "blank phone is stored as NULL")
	require.NotNil(t, user.DateOfBirth)
	assert.Equal(t, "2004-05-06", user.DateOfBirth.Format(dateLayout))
	assert.Equal(t, []string{"b@x.com"}, env.notifier.sent)

	claims, err := env.jwt.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "student", claims.Role)
}

func TestAuthService_Register_NotificationFailureIsNotFatal(t *testing.T) {
	env := newTestEnv()
	env.notifier.err = errors.New("smtp down")

	user, token, err := env.auth.Register(ctx, model.RegisterRequest{Username: "bob", Email: "b@x.com", Password: "p1"})

	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, token)
}

func TestAuthService_Register_Validation(t *testing.T) {
	tests := []struct {
		name  string
		req   model.RegisterRequest
		field string
		msg   string
	}{
		{
			name:  "missing email",
			req:   model.RegisterRequest{Username: "bob", Password: "p1"},
			field: "email",
			msg:   "This field is required.",
		},
		{
			name:  "missing password",
			req:   model.RegisterRequest{Username: "bob", Email: "b@x.com"},
			field: "password",
			msg:   "This field is required.",
		},
		{
			name:  "bad username characters",
			req:   model.RegisterRequest{Username: "bob smith!", Email: "b@x.com", Password: "p1"},
			field: "username",
		},
		{
			name:  "bad email",
			req:   model.RegisterRequest{Username: "bob", Email: "not-an-email", Password: "p1"},
			field: "email",
			msg:   "Enter a valid email address.",
		},
		{
			name:  "bad date of birth",
			req:   model.RegisterRequest{Username: "bob", Email: "b@x.com", Password: "p1", DateOfBirth: ptr("06/05/2004")},
			field: "date_of_birth",
			msg:   "Enter a valid date.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			_, _, err := env.auth.Register(ctx, tt.req)
			msg := requireFieldError(t, err, tt.field)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, msg)
			}
			assert.Empty(t, env.store.users)
			assert.Empty(t, env.notifier.sent)
		})
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	env := newTestEnv()
	env.seedUser(t, "bob", model.RoleStudent)

	_, _, err := env.auth.Register(ctx, model.RegisterRequest{Username: "bob", Email: "b@x.com", Password: "p1"})

	assert.Equal(t, usernameTakenMsg, requireFieldError(t, err, "username"))
	assert.Len(t, env.store.users, 1)
}

func TestAuthService_Login(t *testing.T) {
	env := newTestEnv()
	registered, _, err := env.auth.Register(ctx, model.RegisterRequest{Username: "bob", Email: "b@x.com", Password: "p1"})
	require.NoError(t, err)

	user, token, err := env.auth.Login(ctx, "bob", "p1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)

	_, _, err = env.auth.Login(ctx, "bob", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = env.auth.Login(ctx, "nobody", "p1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnusablePassword(t *testing.T) {
	env := newTestEnv()
	_, staff := env.seedUser(t, "admin", model.RoleStaff)
	_, err := env.users.CreateUser(ctx, staff, model.CreateUserRequest{Username: "carol", Role: model.RoleStudent})
	require.NoError(t, err)

	_, _, err = env.auth.Login(ctx, "carol", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_BootstrapStaff(t *testing.T) {
	env := newTestEnv()

	created, err := env.auth.BootstrapStaff(ctx, "admin", "admin@school.test", "s3cret")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = env.auth.BootstrapStaff(ctx, "admin", "admin@school.test", "other")
	require.NoError(t, err)
	assert.False(t, created)

	user, _, err := env.auth.Login(ctx, "admin", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, model.RoleStaff, user.Role)
	assert.Empty(t, env.notifier.sent, "bootstrap does not send a welcome email")
}
