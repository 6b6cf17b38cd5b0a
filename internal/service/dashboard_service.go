package service

import (
	"context"
	"fmt"

	"student_mgmt/internal/model"
	"student_mgmt/internal/repository"
)

const recentStudentsLimit = 5

// DashboardService builds the landing summaries for staff and students
type DashboardService interface {
	StaffDashboard(ctx context.Context, caller *model.Caller) (*model.StaffDashboard, error)
	StudentDashboard(ctx context.Context, caller *model.Caller) (*model.StudentDashboard, error)
}

type dashboardService struct {
	userRepo       repository.UserRepository
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(userRepo repository.UserRepository, courseRepo repository.CourseRepository, enrollmentRepo repository.EnrollmentRepository) DashboardService {
	return &dashboardService{userRepo: userRepo, courseRepo: courseRepo, enrollmentRepo: enrollmentRepo}
}

func (s *dashboardService) StaffDashboard(ctx context.Context, caller *model.Caller) (*model.StaffDashboard, error) {
	if err := Authorize(caller, model.RoleStaff); err != nil {
		return nil, err
	}

	var (
		d   model.StaffDashboard
		err error
	)
	if d.TotalStudents, err = s.userRepo.CountByRole(ctx, model.RoleStudent); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	if d.TotalStaff, err = s.userRepo.CountByRole(ctx, model.RoleStaff); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	if d.TotalCourses, err = s.courseRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	if d.TotalEnrollments, err = s.enrollmentRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	if d.RecentStudents, err = s.userRepo.RecentByRole(ctx, model.RoleStudent, recentStudentsLimit); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	return &d, nil
}

// StudentDashboard lists the caller's courses that are in progress or completed.
func (s *dashboardService) StudentDashboard(ctx context.Context, caller *model.Caller) (*model.StudentDashboard, error) {
	if err := Authorize(caller, model.RoleStudent); err != nil {
		return nil, err
	}
	enrollments, err := s.enrollmentRepo.FindByStudent(ctx, caller.UserID, model.StatusInProgress, model.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	d := &model.StudentDashboard{Enrollments: enrollments, EnrolledCount: len(enrollments)}
	for _, e := range enrollments {
		switch e.Status {
		case model.StatusInProgress:
			d.ActiveCount++
		case model.StatusCompleted:
			d.CompletedCount++
		}
	}
	return d, nil
}
