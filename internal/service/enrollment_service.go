package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"student_mgmt/internal/export"
	"student_mgmt/internal/metrics"
	"student_mgmt/internal/model"
	"student_mgmt/internal/repository"
	"student_mgmt/internal/utils"
)

const (
	DefaultEnrollmentPageSize = 10

	duplicateEnrollmentMsg = "Enrollment with this Student and Course already exists."
	staffStudentMsg        = "Select a valid choice. That choice is not one of the available choices."
)

// ExportFormat selects the file type of an enrollment export
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

// EnrollmentService manages the enrollment ledger
type EnrollmentService interface {
	ListEnrollments(ctx context.Context, caller *model.Caller, filters model.EnrollmentFilters) (*model.Page[model.EnrollmentDetail], error)
	GetEnrollment(ctx context.Context, caller *model.Caller, id int64) (*model.Enrollment, error)
	CreateEnrollment(ctx context.Context, caller *model.Caller, req model.EnrollmentRequest) (*model.Enrollment, error)
	UpdateEnrollment(ctx context.Context, caller *model.Caller, id int64, req model.EnrollmentRequest) (*model.Enrollment, error)
	DeleteEnrollment(ctx context.Context, caller *model.Caller, id int64) error
	ExportEnrollments(ctx context.Context, caller *model.Caller, filters model.EnrollmentFilters, format ExportFormat) (*bytes.Buffer, error)

	// Student self-service
	RequestEnrollment(ctx context.Context, caller *model.Caller, courseID int64) (*model.Enrollment, bool, error)
	SetOwnEnrollmentStatus(ctx context.Context, caller *model.Caller, courseID int64, status model.EnrollmentStatus) (*model.Enrollment, error)
	WatchCourse(ctx context.Context, caller *model.Caller, courseID int64) (*model.CourseView, error)
}

type enrollmentService struct {
	repo       repository.EnrollmentRepository
	userRepo   repository.UserRepository
	courseRepo repository.CourseRepository
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(repo repository.EnrollmentRepository, userRepo repository.UserRepository, courseRepo repository.CourseRepository) EnrollmentService {
	return &enrollmentService{repo: repo, userRepo: userRepo, courseRepo: courseRepo}
}

func (s *enrollmentService) ListEnrollments(ctx context.Context, caller *model.Caller, filters model.EnrollmentFilters) (*model.Page[model.EnrollmentDetail], error) {
	if err := Authorize(caller, model.RoleStaff); err != nil {
		return nil, err
	}
	filters.PageSize = pageSize(filters.PageSize, DefaultEnrollmentPageSize)

	page, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return page, nil
}

func (s *enrollmentService) GetEnrollment(ctx context.Context, caller *model.Caller, id int64) (*model.Enrollment, error) {
	if err := Authorize(caller, model.RoleStaff); err != nil {
		return nil, err
	}
	return s.findEnrollment(ctx, id)
}

func (s *enrollmentService) findEnrollment(ctx context.Context, id int64) (*model.Enrollment, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find enrollment by ID: %w", err)
	}
	if e == nil {
		return nil, ErrEnrollmentNotFound
	}
	return e, nil
}

// checkReferences makes sure the student and course of a staff-written enrollment exist and that
// the student is not a staff account.
func (s *enrollmentService) checkReferences(ctx context.Context, studentID, courseID int64) error {
	student, err := s.userRepo.FindByID(ctx, studentID)
	if err != nil {
		return fmt.Errorf("failed to find student: %w", err)
	}
	if student == nil {
		return ErrUserNotFound
	}
	if student.IsStaff() {
		return fieldError("student_id", staffStudentMsg)
	}

	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		return fmt.Errorf("failed to find course: %w", err)
	}
	if course == nil {
		return ErrCourseNotFound
	}
	return nil
}

// writeError maps repository failures of a staff create or update.
func writeError(err error, action string) error {
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return fieldError(NonFieldErrors, duplicateEnrollmentMsg)
	case errors.Is(err, repository.ErrReference):
		// student or course removed after the reference check
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, repository.ErrNotFound):
		return ErrEnrollmentNotFound
	}
	return fmt.Errorf("failed to %s enrollment: %w", action, err)
}

// CreateEnrollment enrolls a student directly. Any status is allowed; Not Started is the default.
func (s *enrollmentService) CreateEnrollment(ctx context.Context, caller *model.Caller, req model.EnrollmentRequest) (*model.Enrollment, error) {
	if err := Authorize(caller, model.RoleStaff); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req.StudentID, req.CourseID); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.StatusNotStarted
	}
	e := &model.Enrollment{StudentID: req.StudentID, CourseID: req.CourseID, Status: status}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, writeError(err, "create")
	}
	return e, nil
}

// UpdateEnrollment reassigns student, course and status. An empty status keeps the current one.
func (s *enrollmentService) UpdateEnrollment(ctx context.Context, caller *model.Caller, id int64, req model.EnrollmentRequest) (*model.Enrollment, error) {
	if err := Authorize(caller, model.RoleStaff); err != nil {
		return nil, err
	}
	e, err := s.findEnrollment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req.StudentID, req.CourseID); err != nil {
		return nil, err
	}

	e.StudentID = req.StudentID
	e.CourseID = req.CourseID
	if req.Status != "" {
		e.Status = req.Status
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, writeError(err, "update")
	}
	return e, nil
}

func (s *enrollmentService) DeleteEnrollment(ctx context.Context, caller *model.Caller, id int64) error {
	if err := Authorize(caller, model.RoleStaff); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEnrollmentNotFound
		}
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	return nil
}

// ExportEnrollments renders every enrollment matching the filters as CSV or XLSX.
func (s *enrollmentService) ExportEnrollments(ctx context.Context, caller *model.Caller, filters model.EnrollmentFilters, format ExportFormat) (*bytes.Buffer, error) {
	if err := Authorize(caller, model.RoleStaff); err != nil {
		return nil, err
	}
	if format != ExportCSV && format != ExportXLSX {
		return nil, fieldError("format", fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", format))
	}

	items, err := s.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollments for export: %w", err)
	}
	if format == ExportXLSX {
		return export.EnrollmentsXLSX(items)
	}
	return export.EnrollmentsCSV(items)
}

// RequestEnrollment enrolls the calling student in a course as Pending, or returns the existing
// enrollment untouched. The boolean reports whether a new enrollment was created.
func (s *enrollmentService) RequestEnrollment(ctx context.Context, caller *model.Caller, courseID int64) (*model.Enrollment, bool, error) {
	if err := Authorize(caller, model.RoleStudent); err != nil {
		return nil, false, err
	}
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to find course: %w", err)
	}
	if course == nil {
		return nil, false, ErrCourseNotFound
	}

	e, created, err := s.repo.GetOrCreate(ctx, caller.UserID, courseID, model.StatusPending)
	if err != nil {
		if errors.Is(err, repository.ErrReference) {
			return nil, false, ErrCourseNotFound
		}
		return nil, false, fmt.Errorf("failed to request enrollment: %w", err)
	}
	metrics.ObserveEnrollmentRequest(created)
	return e, created, nil
}

// SetOwnEnrollmentStatus lets a student complete or drop a course they are enrolled in. Any
// other target leaves the enrollment untouched.
func (s *enrollmentService) SetOwnEnrollmentStatus(ctx context.Context, caller *model.Caller, courseID int64, status model.EnrollmentStatus) (*model.Enrollment, error) {
	if err := Authorize(caller, model.RoleStudent); err != nil {
		return nil, err
	}
	e, err := s.repo.FindByStudentAndCourse(ctx, caller.UserID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find enrollment: %w", err)
	}
	if e == nil {
		return nil, ErrEnrollmentNotFound
	}
	if !status.StudentSettable() {
		return e, nil
	}

	updatedAt, err := s.repo.UpdateStatus(ctx, e.ID, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to update enrollment status: %w", err)
	}
	e.Status = status
	e.UpdatedAt = updatedAt
	return e, nil
}

// WatchCourse returns a course the student is enrolled in together with its YouTube video id.
func (s *enrollmentService) WatchCourse(ctx context.Context, caller *model.Caller, courseID int64) (*model.CourseView, error) {
	if err := Authorize(caller, model.RoleStudent); err != nil {
		return nil, err
	}
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	e, err := s.repo.FindByStudentAndCourse(ctx, caller.UserID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find enrollment: %w", err)
	}
	if e == nil {
		return nil, ErrEnrollmentNotFound
	}

	view := &model.CourseView{Course: *course, Enrollment: *e}
	if course.VideoLink != nil {
		view.VideoID = utils.YouTubeID(*course.VideoLink)
	}
	return view, nil
}
