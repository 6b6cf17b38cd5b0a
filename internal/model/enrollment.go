package model

import "time"

// EnrollmentStatus is the lifecycle state of an enrollment.
type EnrollmentStatus string

const (
	StatusNotStarted EnrollmentStatus = "Not Started"
	StatusPending    EnrollmentStatus = "Pending"
	StatusInProgress EnrollmentStatus = "In Progress"
	StatusCompleted  EnrollmentStatus = "Completed"
	StatusDropped    EnrollmentStatus = "Dropped"
)

// EnrollmentStatuses lists every status in display order.
var EnrollmentStatuses = []EnrollmentStatus{
	StatusNotStarted,
	StatusPending,
	StatusInProgress,
	StatusCompleted,
	StatusDropped,
}

// Valid reports whether s is one of the enumerated statuses.
func (s EnrollmentStatus) Valid() bool {
	for _, v := range EnrollmentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// StudentSettable reports whether a student may move their own enrollment to s.
func (s EnrollmentStatus) StudentSettable() bool {
	return s == StatusCompleted || s == StatusDropped
}

// Enrollment links one student to one course
type Enrollment struct {
	ID         int64            `json:"id"`
	StudentID  int64            `json:"student_id"`
	CourseID   int64            `json:"course_id"`
	Status     EnrollmentStatus `json:"status"`
	EnrolledAt time.Time        `json:"enrolled_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// EnrollmentDetail enriches Enrollment with student and course info for listings.
type EnrollmentDetail struct {
	Enrollment
	StudentUsername string `json:"student_username"`
	StudentEmail    string `json:"student_email"`
	CourseTitle     string `json:"course_title"`
}

// EnrollmentRequest is used by staff to create or edit an enrollment
type EnrollmentRequest struct {
	StudentID int64            `json:"student_id" validate:"required,gt=0"`
	CourseID  int64            `json:"course_id" validate:"required,gt=0"`
	Status    EnrollmentStatus `json:"status" validate:"omitempty,enrollment_status"`
}

// EnrollmentStatusRequest is the body a student sends to finish or drop a course
type EnrollmentStatusRequest struct {
	Status EnrollmentStatus `json:"status" binding:"required"`
}

// EnrollmentFilters contains filter parameters for enrollment listing
type EnrollmentFilters struct {
	Query    string // Matches student username, student email or course title
	Status   EnrollmentStatus
	Page     int
	PageSize int
}
