package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"student_mgmt/internal/model"
	"student_mgmt/internal/utils"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (n *recordingNotifier) SendWelcome(_ context.Context, u *model.User) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, u.Email)
	return n.err
}

type testEnv struct {
	store       *memStore
	notifier    *recordingNotifier
	jwt         *utils.JWTUtil
	auth        AuthService
	users       UserService
	courses     CourseService
	enrollments EnrollmentService
	dashboards  DashboardService
}

func newTestEnv() *testEnv {
	store := newMemStore()
	userRepo, courseRepo, enrollmentRepo := memUsers{store}, memCourses{store}, memEnrollments{store}
	notifier := &recordingNotifier{}
	jwtUtil := utils.NewJWTUtil("test-secret", 1)
	return &testEnv{
		store:       store,
		notifier:    notifier,
		jwt:         jwtUtil,
		auth:        NewAuthService(userRepo, jwtUtil, notifier, zap.NewNop()),
		users:       NewUserService(userRepo),
		courses:     NewCourseService(courseRepo, enrollmentRepo),
		enrollments: NewEnrollmentService(enrollmentRepo, userRepo, courseRepo),
		dashboards:  NewDashboardService(userRepo, courseRepo, enrollmentRepo),
	}
}

var ctx = context.Background()

func (e *testEnv) seedUser(t *testing.T, username string, role model.Role) (*model.User, *model.Caller) {
	t.Helper()
	u := &model.User{Username: username, Email: username + "@school.test", Role: role, PasswordHash: "x"}
	require.NoError(t, memUsers{e.store}.Create(ctx, u))
	return u, model.NewCaller(u.ID, role)
}

func (e *testEnv) seedCourse(t *testing.T, title string) *model.Course {
	t.Helper()
	c := &model.Course{Title: title, Description: "about " + title, Duration: "4 weeks"}
	require.NoError(t, memCourses{e.store}.Create(ctx, c))
	return c
}

func ptr[T any](v T) *T { return &v }

func requireFieldError(t *testing.T, err error, field string) string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	msg, ok := verr.Fields[field]
	require.True(t, ok, "no error for field %q in %v", field, verr.Fields)
	return msg
}
