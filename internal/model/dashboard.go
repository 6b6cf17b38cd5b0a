package model

// StaffDashboard summarizes the system for staff users
type StaffDashboard struct {
	TotalStudents    int64  `json:"total_students"`
	TotalStaff       int64  `json:"total_staff"`
	TotalCourses     int64  `json:"total_courses"`
	TotalEnrollments int64  `json:"total_enrollments"`
	RecentStudents   []User `json:"recent_students"`
}

// StudentDashboard shows a student's active and finished courses
type StudentDashboard struct {
	Enrollments    []EnrollmentDetail `json:"enrollments"`
	EnrolledCount  int                `json:"enrolled_count"`
	ActiveCount    int                `json:"active_count"`
	CompletedCount int                `json:"completed_count"`
}
