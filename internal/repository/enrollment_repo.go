package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"student_mgmt/internal/model"

	"github.com/jackc/pgx/v5"
)

// getOrCreateAttempts bounds the insert-or-fetch loop in GetOrCreate.
const getOrCreateAttempts = 3

// EnrollmentRepository defines operations for enrollment data
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *model.Enrollment) error
	GetOrCreate(ctx context.Context, studentID, courseID int64, status model.EnrollmentStatus) (*model.Enrollment, bool, error)
	FindByID(ctx context.Context, id int64) (*model.Enrollment, error)
	FindByStudentAndCourse(ctx context.Context, studentID, courseID int64) (*model.Enrollment, error)
	FindByStudent(ctx context.Context, studentID int64, statuses ...model.EnrollmentStatus) ([]model.EnrollmentDetail, error)
	Update(ctx context.Context, enrollment *model.Enrollment) error
	UpdateStatus(ctx context.Context, id int64, status model.EnrollmentStatus) (time.Time, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filters model.EnrollmentFilters) (*model.Page[model.EnrollmentDetail], error)
	FindAll(ctx context.Context, filters model.EnrollmentFilters) ([]model.EnrollmentDetail, error)
	Count(ctx context.Context) (int64, error)
}

type enrollmentRepository struct {
	db DB
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

const enrollmentColumns = `id, student_id, course_id, status, enrolled_at, updated_at`

const enrollmentDetailSelect = `SELECT e.id, e.student_id, e.course_id, e.status, e.enrolled_at, e.updated_at,
                                       u.username, u.email, c.title
                                FROM enrollments e
                                JOIN users u ON u.id = e.student_id
                                JOIN courses c ON c.id = e.course_id`

func scanEnrollment(row pgx.Row, e *model.Enrollment) error {
	return row.Scan(&e.ID, &e.StudentID, &e.CourseID, &e.Status, &e.EnrolledAt, &e.UpdatedAt)
}

func scanEnrollmentDetail(row pgx.Row, d *model.EnrollmentDetail) error {
	return row.Scan(
		&d.ID, &d.StudentID, &d.CourseID, &d.Status, &d.EnrolledAt, &d.UpdatedAt,
		&d.StudentUsername, &d.StudentEmail, &d.CourseTitle,
	)
}

// Create inserts a new enrollment. A second enrollment for the same student and course fails
// with ErrDuplicate.
func (r *enrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	sql := `INSERT INTO enrollments (student_id, course_id, status)
            VALUES ($1, $2, $3) RETURNING id, enrolled_at, updated_at`
	err := r.db.QueryRow(ctx, sql, e.StudentID, e.CourseID, e.Status).Scan(&e.ID, &e.EnrolledAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create enrollment: %w", mapPgError(err))
	}
	return nil
}

// GetOrCreate returns the enrollment for (studentID, courseID), inserting one with the given
// status when none exists. The boolean reports whether a row was inserted. Uniqueness is held by
// the (student_id, course_id) constraint: a losing concurrent insert falls back to reading the
// winner's row.
func (r *enrollmentRepository) GetOrCreate(ctx context.Context, studentID, courseID int64, status model.EnrollmentStatus) (*model.Enrollment, bool, error) {
	sql := `INSERT INTO enrollments (student_id, course_id, status)
            VALUES ($1, $2, $3)
            ON CONFLICT (student_id, course_id) DO NOTHING
            RETURNING id, enrolled_at, updated_at`

	for attempt := 1; attempt <= getOrCreateAttempts; attempt++ {
		e := &model.Enrollment{StudentID: studentID, CourseID: courseID, Status: status}
		err := r.db.QueryRow(ctx, sql, studentID, courseID, status).Scan(&e.ID, &e.EnrolledAt, &e.UpdatedAt)
		if err == nil {
			return e, true, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, false, fmt.Errorf("failed to insert enrollment: %w", mapPgError(err))
		}

		existing, err := r.FindByStudentAndCourse(ctx, studentID, courseID)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, false, nil
		}
		// The conflicting row was deleted between the insert and the read.
	}
	return nil, false, fmt.Errorf("get-or-create enrollment (student %d, course %d): gave up after %d attempts",
		studentID, courseID, getOrCreateAttempts)
}

// FindByID retrieves an enrollment by its ID
func (r *enrollmentRepository) FindByID(ctx context.Context, id int64) (*model.Enrollment, error) {
	e := &model.Enrollment{}
	err := scanEnrollment(r.db.QueryRow(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1`, id), e)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find enrollment by ID: %w", err)
	}
	return e, nil
}

// FindByStudentAndCourse retrieves the enrollment of a student in a course
func (r *enrollmentRepository) FindByStudentAndCourse(ctx context.Context, studentID, courseID int64) (*model.Enrollment, error) {
	e := &model.Enrollment{}
	sql := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE student_id = $1 AND course_id = $2`
	err := scanEnrollment(r.db.QueryRow(ctx, sql, studentID, courseID), e)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find enrollment by student and course: %w", err)
	}
	return e, nil
}

// FindByStudent lists a student's enrollments, optionally restricted to some statuses
func (r *enrollmentRepository) FindByStudent(ctx context.Context, studentID int64, statuses ...model.EnrollmentStatus) ([]model.EnrollmentDetail, error) {
	query := enrollmentDetailSelect + ` WHERE e.student_id = $1`
	args := []any{studentID}
	if len(statuses) > 0 {
		names := make([]string, len(statuses))
		for i, s := range statuses {
			names[i] = string(s)
		}
		query += ` AND e.status = ANY($2)`
		args = append(args, names)
	}
	query += ` ORDER BY e.enrolled_at DESC, e.id DESC`
	return r.queryDetails(ctx, query, args...)
}

// Update rewrites student, course and status of an enrollment. updated_at is refreshed.
func (r *enrollmentRepository) Update(ctx context.Context, e *model.Enrollment) error {
	sql := `UPDATE enrollments
            SET student_id = $1, course_id = $2, status = $3, updated_at = NOW()
            WHERE id = $4 RETURNING enrolled_at, updated_at`
	err := r.db.QueryRow(ctx, sql, e.StudentID, e.CourseID, e.Status, e.ID).Scan(&e.EnrolledAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("enrollment %d: %w", e.ID, ErrNotFound)
		}
		return fmt.Errorf("failed to update enrollment: %w", mapPgError(err))
	}
	return nil
}

// UpdateStatus sets the status and returns the new updated_at
func (r *enrollmentRepository) UpdateStatus(ctx context.Context, id int64, status model.EnrollmentStatus) (time.Time, error) {
	var updatedAt time.Time
	sql := `UPDATE enrollments SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql, status, id).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, fmt.Errorf("enrollment %d: %w", id, ErrNotFound)
		}
		return time.Time{}, fmt.Errorf("failed to update enrollment status: %w", err)
	}
	return updatedAt, nil
}

// Delete removes an enrollment
func (r *enrollmentRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("enrollment %d: %w", id, ErrNotFound)
	}
	return nil
}

func enrollmentConditions(filters model.EnrollmentFilters) ([]string, []any) {
	args := []any{}
	var conditions []string
	if filters.Query != "" {
		args = append(args, containsPattern(filters.Query))
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(u.username ILIKE $%d OR u.email ILIKE $%d OR c.title ILIKE $%d)", n, n, n))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		conditions = append(conditions, fmt.Sprintf("e.status = $%d", len(args)))
	}
	return conditions, args
}

// List returns one page of enrollments, newest enrolled first
func (r *enrollmentRepository) List(ctx context.Context, filters model.EnrollmentFilters) (*model.Page[model.EnrollmentDetail], error) {
	conditions, args := enrollmentConditions(filters)
	where := whereClause(conditions)

	var total int64
	countSQL := `SELECT COUNT(*) FROM enrollments e
                 JOIN users u ON u.id = e.student_id
                 JOIN courses c ON c.id = e.course_id` + where
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count enrollments: %w", err)
	}

	page, offset, totalPages := model.Paginate(total, filters.Page, filters.PageSize)
	query := fmt.Sprintf(`%s%s ORDER BY e.enrolled_at DESC, e.id DESC LIMIT $%d OFFSET $%d`,
		enrollmentDetailSelect, where, len(args)+1, len(args)+2)
	args = append(args, filters.PageSize, offset)

	items, err := r.queryDetails(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &model.Page[model.EnrollmentDetail]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// FindAll returns every enrollment matching the filters, ignoring pagination
func (r *enrollmentRepository) FindAll(ctx context.Context, filters model.EnrollmentFilters) ([]model.EnrollmentDetail, error) {
	conditions, args := enrollmentConditions(filters)
	query := enrollmentDetailSelect + whereClause(conditions) + ` ORDER BY e.enrolled_at DESC, e.id DESC`
	return r.queryDetails(ctx, query, args...)
}

// Count returns the number of enrollments
func (r *enrollmentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM enrollments`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count enrollments: %w", err)
	}
	return n, nil
}

func (r *enrollmentRepository) queryDetails(ctx context.Context, query string, args ...any) ([]model.EnrollmentDetail, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	items := []model.EnrollmentDetail{}
	for rows.Next() {
		var d model.EnrollmentDetail
		if err := scanEnrollmentDetail(rows, &d); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment row: %w", err)
		}
		items = append(items, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollment rows: %w", err)
	}
	return items, nil
}
