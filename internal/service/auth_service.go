package service

import (
	"context"
	"errors"
	"fmt"

	"student_mgmt/internal/model"
	"student_mgmt/internal/notify"
	"student_mgmt/internal/repository"
	"student_mgmt/internal/utils"

	"go.uber.org/zap"
)

const usernameTakenMsg = "A user with that username already exists."

// AuthService provides registration, login and the staff bootstrap
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error)
	Login(ctx context.Context, username, password string) (*model.User, string, error)
	BootstrapStaff(ctx context.Context, username, email, password string) (bool, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
	notifier notify.Notifier
	log      *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, notifier notify.Notifier, log *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
		notifier: notifier,
		log:      log,
	}
}

// Register creates a student account for a visitor and signs them in.
// The welcome notification is best effort.
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error) {
	if err := validateStruct(req); err != nil {
		return nil, "", err
	}

	existingUser, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, "", fieldError("username", usernameTakenMsg)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:       req.Username,
		Email:          req.Email,
		PasswordHash:   hashedPassword,
		Role:           model.RoleStudent,
		Phone:          emptyToNil(req.Phone),
		DateOfBirth:    parseDate(req.DateOfBirth),
		ProfilePicture: emptyToNil(req.ProfilePicture),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", fieldError("username", usernameTakenMsg)
		}
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}

	if err := s.notifier.SendWelcome(ctx, user); err != nil {
		s.log.Warn("welcome notification failed", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		s.log.Error("user created, but failed to generate token", zap.Int64("user_id", user.ID), zap.Error(err))
		return user, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	return user, token, nil
}

// Login authenticates a user and returns a JWT token
func (s *authService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by username: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	// An unusable password never matches.
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// BootstrapStaff creates the initial staff account unless the username is already taken.
// It reports whether an account was created.
func (s *authService) BootstrapStaff(ctx context.Context, username, email, password string) (bool, error) {
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("failed to look up bootstrap staff account: %w", err)
	}
	if existing != nil {
		if !existing.IsStaff() {
			s.log.Warn("bootstrap username belongs to a student account, skipping", zap.String("username", username))
		}
		return false, nil
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         model.RoleStaff,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create bootstrap staff account: %w", err)
	}
	s.log.Info("bootstrap staff account created", zap.String("username", username), zap.Int64("user_id", user.ID))
	return true, nil
}
