package service

import "student_mgmt/internal/model"

// Authorize is the access gate: the caller must be identified and hold the required role.
// A missing identity yields ErrUnauthorized; a wrong role yields ErrForbidden.
func Authorize(caller *model.Caller, role model.Role) error {
	if caller == nil || caller.UserID <= 0 {
		return ErrUnauthorized
	}
	if caller.Role != role {
		return ErrForbidden
	}
	return nil
}
