package model

import "time"

// Role is the account kind. It is fixed when the account is created.
type Role string

const (
	RoleStaff   Role = "staff"
	RoleStudent Role = "student"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStaff || r == RoleStudent
}

// User represents an account in the system
type User struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"` // Empty hash means the account cannot log in
	Role           Role       `json:"role"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Phone          *string    `json:"phone,omitempty"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	ProfilePicture *string    `json:"profile_picture,omitempty"`
	DateJoined     time.Time  `json:"date_joined"`
}

// IsStaff reports whether the account has the staff role.
func (u *User) IsStaff() bool {
	return u.Role == RoleStaff
}

// HasUsablePassword is false for accounts created without a password.
func (u *User) HasUsablePassword() bool {
	return u.PasswordHash != ""
}

// CreateUserRequest is used by staff to create an account of any role
type CreateUserRequest struct {
	Username       string  `json:"username" validate:"required,max=150,username"`
	Email          string  `json:"email" validate:"omitempty,email,max=254"`
	Password       string  `json:"password"` // Optional; unset leaves the account unusable
	Role           Role    `json:"role" validate:"omitempty,oneof=staff student"`
	FirstName      string  `json:"first_name" validate:"max=150"`
	LastName       string  `json:"last_name" validate:"max=150"`
	Phone          *string `json:"phone" validate:"omitempty,max=15"`
	DateOfBirth    *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,max=255"`
}

// UpdateUserRequest is used by staff to edit a student account
type UpdateUserRequest struct {
	Username       string  `json:"username" validate:"required,max=150,username"`
	Email          string  `json:"email" validate:"omitempty,email,max=254"`
	Password       string  `json:"password"` // Only applied when non-empty
	FirstName      string  `json:"first_name" validate:"max=150"`
	LastName       string  `json:"last_name" validate:"max=150"`
	Phone          *string `json:"phone" validate:"omitempty,max=15"`
	DateOfBirth    *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,max=255"`
}

// RegisterRequest is the public self-registration form
type RegisterRequest struct {
	Username       string  `json:"username" validate:"required,max=150,username"`
	Email          string  `json:"email" validate:"required,email,max=254"`
	Password       string  `json:"password" validate:"required"`
	Phone          *string `json:"phone" validate:"omitempty,max=15"`
	DateOfBirth    *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,max=255"`
}

// ProfileUpdateRequest holds the fields a student may change on their own account
type ProfileUpdateRequest struct {
	Email          string  `json:"email" validate:"omitempty,email,max=254"`
	Phone          *string `json:"phone" validate:"omitempty,max=15"`
	DateOfBirth    *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,max=255"`
}

// UserFilters contains filter parameters for user listing
type UserFilters struct {
	Role     Role
	Query    string // Matches username, email, first or last name
	Page     int
	PageSize int
}
