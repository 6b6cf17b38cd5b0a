package repository

import (
	"context"
	"errors"
	"fmt"

	"student_mgmt/internal/model"

	"github.com/jackc/pgx/v5"
)

// CourseRepository defines operations for course data
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	FindByID(ctx context.Context, id int64) (*model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filters model.CourseFilters) (*model.Page[model.Course], error)
	FindAll(ctx context.Context) ([]model.Course, error)
	Count(ctx context.Context) (int64, error)
}

type courseRepository struct {
	db DB
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db DB) CourseRepository {
	return &courseRepository{db: db}
}

const courseColumns = `id, title, course_image, description, video_link, duration, created_at`

func scanCourse(row pgx.Row, c *model.Course) error {
	return row.Scan(&c.ID, &c.Title, &c.Image, &c.Description, &c.VideoLink, &c.Duration, &c.CreatedAt)
}

// Create inserts a new course into the database
func (r *courseRepository) Create(ctx context.Context, c *model.Course) error {
	sql := `INSERT INTO courses (title, course_image, description, video_link, duration)
            VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, sql, c.Title, c.Image, c.Description, c.VideoLink, c.Duration).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", mapPgError(err))
	}
	return nil
}

// FindByID retrieves a course by its ID
func (r *courseRepository) FindByID(ctx context.Context, id int64) (*model.Course, error) {
	c := &model.Course{}
	err := scanCourse(r.db.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id), c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find course by ID: %w", err)
	}
	return c, nil
}

// Update modifies an existing course
func (r *courseRepository) Update(ctx context.Context, c *model.Course) error {
	sql := `UPDATE courses
            SET title = $1, course_image = $2, description = $3, video_link = $4, duration = $5
            WHERE id = $6 RETURNING created_at`
	err := r.db.QueryRow(ctx, sql, c.Title, c.Image, c.Description, c.VideoLink, c.Duration, c.ID).Scan(&c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("course %d: %w", c.ID, ErrNotFound)
		}
		return fmt.Errorf("failed to update course: %w", mapPgError(err))
	}
	return nil
}

// Delete removes a course and, through ON DELETE CASCADE, its enrollments
func (r *courseRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("course %d: %w", id, ErrNotFound)
	}
	return nil
}

// List returns one page of courses, newest first
func (r *courseRepository) List(ctx context.Context, filters model.CourseFilters) (*model.Page[model.Course], error) {
	args := []any{}
	var conditions []string
	if filters.Query != "" {
		args = append(args, containsPattern(filters.Query))
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	where := whereClause(conditions)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM courses`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count courses: %w", err)
	}

	page, offset, totalPages := model.Paginate(total, filters.Page, filters.PageSize)
	query := fmt.Sprintf(`SELECT %s FROM courses%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		courseColumns, where, len(args)+1, len(args)+2)
	args = append(args, filters.PageSize, offset)

	courses, err := r.queryCourses(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &model.Page[model.Course]{
		Items:      courses,
		Total:      total,
		Page:       page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// FindAll returns every course, newest first
func (r *courseRepository) FindAll(ctx context.Context) ([]model.Course, error) {
	return r.queryCourses(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY created_at DESC, id DESC`)
}

// Count returns the number of courses
func (r *courseRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return n, nil
}

func (r *courseRepository) queryCourses(ctx context.Context, query string, args ...any) ([]model.Course, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := scanCourse(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}
	return courses, nil
}
