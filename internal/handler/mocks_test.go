package handler

import (
	"bytes"
	"context"

	"student_mgmt/internal/model"
	"student_mgmt/internal/service"

	"github.com/stretchr/testify/mock"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error) {
	args := m.Called(ctx, req)
	u, _ := args.Get(0).(*model.User)
	return u, args.String(1), args.Error(2)
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	args := m.Called(ctx, username, password)
	u, _ := args.Get(0).(*model.User)
	return u, args.String(1), args.Error(2)
}

func (m *mockAuthService) BootstrapStaff(ctx context.Context, username, email, password string) (bool, error) {
	args := m.Called(ctx, username, email, password)
	return args.Bool(0), args.Error(1)
}

type mockEnrollmentService struct{ mock.Mock }

func (m *mockEnrollmentService) ListEnrollments(ctx context.Context, caller *model.Caller, filters model.EnrollmentFilters) (*model.Page[model.EnrollmentDetail], error) {
	args := m.Called(ctx, caller, filters)
	p, _ := args.Get(0).(*model.Page[model.EnrollmentDetail])
	return p, args.Error(1)
}

func (m *mockEnrollmentService) GetEnrollment(ctx context.Context, caller *model.Caller, id int64) (*model.Enrollment, error) {
	args := m.Called(ctx, caller, id)
	e, _ := args.Get(0).(*model.Enrollment)
	return e, args.Error(1)
}

func (m *mockEnrollmentService) CreateEnrollment(ctx context.Context, caller *model.Caller, req model.EnrollmentRequest) (*model.Enrollment, error) {
	args := m.Called(ctx, caller, req)
	e, _ := args.Get(0).(*model.Enrollment)
	return e, args.Error(1)
}

func (m *mockEnrollmentService) UpdateEnrollment(ctx context.Context, caller *model.Caller, id int64, req model.EnrollmentRequest) (*model.Enrollment, error) {
	args := m.Called(ctx, caller, id, req)
	e, _ := args.Get(0).(*model.Enrollment)
	return e, args.Error(1)
}

func (m *mockEnrollmentService) DeleteEnrollment(ctx context.Context, caller *model.Caller, id int64) error {
	return m.Called(ctx, caller, id).Error(0)
}

func (m *mockEnrollmentService) ExportEnrollments(ctx context.Context, caller *model.Caller, filters model.EnrollmentFilters, format service.ExportFormat) (*bytes.Buffer, error) {
	args := m.Called(ctx, caller, filters, format)
	b, _ := args.Get(0).(*bytes.Buffer)
	return b, args.Error(1)
}

func (m *mockEnrollmentService) RequestEnrollment(ctx context.Context, caller *model.Caller, courseID int64) (*model.Enrollment, bool, error) {
	args := m.Called(ctx, caller, courseID)
	e, _ := args.Get(0).(*model.Enrollment)
	return e, args.Bool(1), args.Error(2)
}

func (m *mockEnrollmentService) SetOwnEnrollmentStatus(ctx context.Context, caller *model.Caller, courseID int64, status model.EnrollmentStatus) (*model.Enrollment, error) {
	args := m.Called(ctx, caller, courseID, status)
	e, _ := args.Get(0).(*model.Enrollment)
	return e, args.Error(1)
}

func (m *mockEnrollmentService) WatchCourse(ctx context.Context, caller *model.Caller, courseID int64) (*model.CourseView, error) {
	args := m.Called(ctx, caller, courseID)
	v, _ := args.Get(0).(*model.CourseView)
	return v, args.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) ListUsers(ctx context.Context, caller *model.Caller, filters model.UserFilters) (*model.Page[model.User], error) {
	args := m.Called(ctx, caller, filters)
	p, _ := args.Get(0).(*model.Page[model.User])
	return p, args.Error(1)
}

func (m *mockUserService) GetUser(ctx context.Context, caller *model.Caller, id int64) (*model.User, error) {
	args := m.Called(ctx, caller, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserService) CreateUser(ctx context.Context, caller *model.Caller, req model.CreateUserRequest) (*model.User, error) {
	args := m.Called(ctx, caller, req)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserService) UpdateUser(ctx context.Context, caller *model.Caller, id int64, req model.UpdateUserRequest) (*model.User, error) {
	args := m.Called(ctx, caller, id, req)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserService) DeleteUser(ctx context.Context, caller *model.Caller, id int64) error {
	return m.Called(ctx, caller, id).Error(0)
}

func (m *mockUserService) GetProfile(ctx context.Context, caller *model.Caller) (*model.User, error) {
	args := m.Called(ctx, caller)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, caller *model.Caller, req model.ProfileUpdateRequest) (*model.User, error) {
	args := m.Called(ctx, caller, req)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

var (
	_ service.AuthService       = (*mockAuthService)(nil)
	_ service.EnrollmentService = (*mockEnrollmentService)(nil)
	_ service.UserService       = (*mockUserService)(nil)
)
