package model

import "time"

// Course represents a course in the catalog
type Course struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Image       *string   `json:"course_image,omitempty"`
	Description string    `json:"description"`
	VideoLink   *string   `json:"video_link,omitempty"`
	Duration    string    `json:"duration"`
	CreatedAt   time.Time `json:"created_at"`
}

// CourseRequest is used for creating and editing a course
type CourseRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Image       *string `json:"course_image" validate:"omitempty,max=255"`
	Description string  `json:"description" validate:"required"`
	VideoLink   *string `json:"video_link" validate:"omitempty,url,max=200"`
	Duration    string  `json:"duration" validate:"required,max=50"`
}

// CourseFilters contains filter parameters for course listing
type CourseFilters struct {
	Query    string // Matches title
	Page     int
	PageSize int
}

// CourseListing is a course as seen by a student browsing the catalog.
type CourseListing struct {
	Course
	EnrollmentStatus *EnrollmentStatus `json:"enrollment_status"` // nil when not enrolled
}

// CourseView is what a student gets when opening a course they are enrolled in.
type CourseView struct {
	Course     Course     `json:"course"`
	Enrollment Enrollment `json:"enrollment"`
	VideoID    string     `json:"video_id,omitempty"`
}
