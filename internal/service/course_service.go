package service

import (
	"context"
	"errors"
	"fmt"

	"student_mgmt/internal/model"
	"student_mgmt/internal/repository"
)

const DefaultCoursePageSize = 10

// CourseService manages the course catalog
type CourseService interface {
	ListCourses(ctx context.Context, caller *model.Caller, filters model.CourseFilters) (*model.Page[model.Course], error)
	GetCourse(ctx context.Context, caller *model.Caller, id int64) (*model.Course, error)
	CreateCourse(ctx context.Context, caller *model.Caller, req model.CourseRequest) (*model.Course, error)
	UpdateCourse(ctx context.Context, caller *model.Caller, id int64, req model.CourseRequest) (*model.Course, error)
	DeleteCourse(ctx context.Context, caller *model.Caller, id int64) error

	// BrowseCourses lists every course for a student with their enrollment status, if any
	BrowseCourses(ctx context.Context, caller *model.Caller) ([]model.CourseListing, error)
}

type courseService struct {
	repo           repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
}

// NewCourseService creates a new CourseService
func NewCourseService(repo repository.CourseRepository, enrollmentRepo repository.EnrollmentRepository) CourseService {
	return &courseService{repo: repo, enrollmentRepo: enrollmentRepo}
}

func (s *courseService) ListCourses(ctx context.Context, caller *model.Caller, filters model.CourseFilters) (*model.Page[model.Course], error) {
	if err := Authorize(caller, model.RoleStaff); err != nil {
		return nil, err
	}
	filters.PageSize = pageSize(filters.PageSize, DefaultCoursePageSize)

	page, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return page, nil
}

func (s *courseService) GetCourse(ctx context.Context, caller *model.Caller, id int64) (*model.Course, error) {
	if err := Authorize(caller, model.RoleStaff); err != nil {
		return nil, err
	}
	return s.findCourse(ctx, id)
}

func (s *courseService) findCourse(ctx context.Context, id int64) (*model.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find course by ID: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

func (s *courseService) CreateCourse(ctx context.Context, caller *model.Caller, req model.CourseRequest) (*model.Course, error) {
	if err := Authorize(caller, model.RoleStaff); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	course := &model.Course{
		Title:       req.Title,
		Image:       emptyToNil(req.Image),
		Description: req.Description,
		VideoLink:   emptyToNil(req.VideoLink),
		Duration:    req.Duration,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	return course, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, caller *model.Caller, id int64, req model.CourseRequest) (*model.Course, error) {
	if err := Authorize(caller, model.RoleStaff); err != nil {
		return nil, err
	}
	course, err := s.findCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	course.Title = req.Title
	course.Image = emptyToNil(req.Image)
	course.Description = req.Description
	course.VideoLink = emptyToNil(req.VideoLink)
	course.Duration = req.Duration

	if err := s.repo.Update(ctx, course); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to update course: %w", err)
	}
	return course, nil
}

// DeleteCourse removes a course and every enrollment in it.
func (s *courseService) DeleteCourse(ctx context.Context, caller *model.Caller, id int64) error {
	if err := Authorize(caller, model.RoleStaff); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return nil
}

func (s *courseService) BrowseCourses(ctx context.Context, caller *model.Caller) ([]model.CourseListing, error) {
	if err := Authorize(caller, model.RoleStudent); err != nil {
		return nil, err
	}

	courses, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	enrollments, err := s.enrollmentRepo.FindByStudent(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	statusByCourse := make(map[int64]model.EnrollmentStatus, len(enrollments))
	for _, e := range enrollments {
		statusByCourse[e.CourseID] = e.Status
	}

	listings := make([]model.CourseListing, 0, len(courses))
	for _, c := range courses {
		l := model.CourseListing{Course: c}
		if st, ok := statusByCourse[c.ID]; ok {
			l.EnrollmentStatus = &st
		}
		listings = append(listings, l)
	}
	return listings, nil
}
