package service

import (
	"context"
	"errors"
	"fmt"

	"student_mgmt/internal/model"
	"student_mgmt/internal/repository"
	"student_mgmt/internal/utils"
)

const (
	DefaultUserPageSize = 7
	maxPageSize         = 100
)

// UserService manages accounts on behalf of staff, and a student's own profile
type UserService interface {
	ListUsers(ctx context.Context, caller *model.Caller, filters model.UserFilters) (*model.Page[model.User], error)
	GetUser(ctx context.Context, caller *model.Caller, id int64) (*model.User, error)
	CreateUser(ctx context.Context, caller *model.Caller, req model.CreateUserRequest) (*model.User, error)
	UpdateUser(ctx context.Context, caller *model.Caller, id int64, req model.UpdateUserRequest) (*model.User, error)
	DeleteUser(ctx context.Context, caller *model.Caller, id int64) error

	GetProfile(ctx context.Context, caller *model.Caller) (*model.User, error)
	UpdateProfile(ctx context.Context, caller *model.Caller, req model.ProfileUpdateRequest) (*model.User, error)
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func pageSize(requested, def int) int {
	if requested <= 0 || requested > maxPageSize {
		return def
	}
	return requested
}

func (s *userService) ListUsers(ctx context.Context, caller *model.Caller, filters model.UserFilters) (*model.Page[model.User], error) {
	if err := Authorize(caller, model.RoleStaff); err != nil {
		return nil, err
	}
	if filters.Role != "" && !filters.Role.Valid() {
		return nil, fieldError("role", fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", filters.Role))
	}
	filters.PageSize = pageSize(filters.PageSize, DefaultUserPageSize)

	page, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return page, nil
}

func (s *userService) GetUser(ctx context.Context, caller *model.Caller, id int64) (*model.User, error) {
	if err := Authorize(caller, model.RoleStaff); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// CreateUser lets staff create an account of either role. Without a password the account
// cannot log in until one is set.
func (s *userService) CreateUser(ctx context.Context, caller *model.Caller, req model.CreateUserRequest) (*model.User, error) {
	if err := Authorize(caller, model.RoleStaff); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleStudent
	}

	user := &model.User{
		Username:       req.Username,
		Email:          req.Email,
		Role:           role,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          emptyToNil(req.Phone),
		DateOfBirth:    parseDate(req.DateOfBirth),
		ProfilePicture: emptyToNil(req.ProfilePicture),
	}
	if req.Password != "" {
		hashedPassword, err := utils.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hashedPassword
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fieldError("username", usernameTakenMsg)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// findStudent loads a student account; staff accounts are reported as not found.
func (s *userService) findStudent(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	if user == nil || user.Role != model.RoleStudent {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateUser lets staff edit a student account. The password changes only when one is given.
func (s *userService) UpdateUser(ctx context.Context, caller *model.Caller, id int64, req model.UpdateUserRequest) (*model.User, error) {
	if err := Authorize(caller, model.RoleStaff); err != nil {
		return nil, err
	}
	user, err := s.findStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	if req.Username != user.Username {
		other, err := s.repo.FindByUsername(ctx, req.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing user: %w", err)
		}
		if other != nil && other.ID != user.ID {
			return nil, fieldError("username", usernameTakenMsg)
		}
	}

	user.Username = req.Username
	user.Email = req.Email
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Phone = emptyToNil(req.Phone)
	user.DateOfBirth = parseDate(req.DateOfBirth)
	user.ProfilePicture = emptyToNil(req.ProfilePicture)
	if req.Password != "" {
		hashedPassword, err := utils.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hashedPassword
	}

	if err := s.repo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, fieldError("username", usernameTakenMsg)
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes a student account together with its enrollments.
func (s *userService) DeleteUser(ctx context.Context, caller *model.Caller, id int64) error {
	if err := Authorize(caller, model.RoleStaff); err != nil {
		return err
	}
	if _, err := s.findStudent(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *userService) GetProfile(ctx context.Context, caller *model.Caller) (*model.User, error) {
	if err := Authorize(caller, model.RoleStudent); err != nil {
		return nil, err
	}
	return s.findStudent(ctx, caller.UserID)
}

// UpdateProfile changes a student's own contact details. Username, role and password are not
// reachable from here.
func (s *userService) UpdateProfile(ctx context.Context, caller *model.Caller, req model.ProfileUpdateRequest) (*model.User, error) {
	if err := Authorize(caller, model.RoleStudent); err != nil {
		return nil, err
	}
	user, err := s.findStudent(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user.Email = req.Email
	user.Phone = emptyToNil(req.Phone)
	user.DateOfBirth = parseDate(req.DateOfBirth)
	user.ProfilePicture = emptyToNil(req.ProfilePicture)

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}
