package repository

import (
	"context"
	"errors"
	"fmt"

	"student_mgmt/internal/model"

	"github.com/jackc/pgx/v5"
)

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filters model.UserFilters) (*model.Page[model.User], error)
	CountByRole(ctx context.Context, role model.Role) (int64, error)
	RecentByRole(ctx context.Context, role model.Role, limit int) ([]model.User, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, email, password_hash, role, first_name, last_name, phone, date_of_birth, profile_picture, date_joined`

func scanUser(row pgx.Row, u *model.User) error {
	return row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.FirstName, &u.LastName,
		&u.Phone, &u.DateOfBirth, &u.ProfilePicture, &u.DateJoined,
	)
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	sql := `INSERT INTO users (username, email, password_hash, role, first_name, last_name, phone, date_of_birth, profile_picture)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, date_joined`
	err := r.db.QueryRow(ctx, sql,
		u.Username, u.Email, u.PasswordHash, u.Role, u.FirstName, u.LastName, u.Phone, u.DateOfBirth, u.ProfilePicture,
	).Scan(&u.ID, &u.DateJoined)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", mapPgError(err))
	}
	return nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	u := &model.User{}
	err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id), u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found is not an error here, service layer decides
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return u, nil
}

// FindByUsername retrieves a user by their username
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	u := &model.User{}
	err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username), u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return u, nil
}

// Update writes every mutable column of the user. Role and date_joined never change.
func (r *userRepository) Update(ctx context.Context, u *model.User) error {
	sql := `UPDATE users
            SET username = $1, email = $2, password_hash = $3, first_name = $4, last_name = $5,
                phone = $6, date_of_birth = $7, profile_picture = $8
            WHERE id = $9`
	cmdTag, err := r.db.Exec(ctx, sql,
		u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.DateOfBirth, u.ProfilePicture, u.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", mapPgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", u.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a user; their enrollments go with them through ON DELETE CASCADE.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return nil
}

// List returns one page of users, newest joined first
func (r *userRepository) List(ctx context.Context, filters model.UserFilters) (*model.Page[model.User], error) {
	args := []any{}
	var conditions []string

	if filters.Role != "" {
		args = append(args, filters.Role)
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)))
	}
	if filters.Query != "" {
		args = append(args, containsPattern(filters.Query))
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(username ILIKE $%d OR email ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d)", n, n, n, n))
	}
	where := whereClause(conditions)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	page, offset, totalPages := model.Paginate(total, filters.Page, filters.PageSize)
	query := fmt.Sprintf(`SELECT %s FROM users%s ORDER BY date_joined DESC, id DESC LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)+1, len(args)+2)
	args = append(args, filters.PageSize, offset)

	users, err := r.queryUsers(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &model.Page[model.User]{
		Items:      users,
		Total:      total,
		Page:       page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// CountByRole counts accounts with the given role
func (r *userRepository) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users by role: %w", err)
	}
	return n, nil
}

// RecentByRole returns the most recently joined accounts with the given role
func (r *userRepository) RecentByRole(ctx context.Context, role model.Role, limit int) ([]model.User, error) {
	return r.queryUsers(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY date_joined DESC, id DESC LIMIT $2`, role, limit)
}

func (r *userRepository) queryUsers(ctx context.Context, query string, args ...any) ([]model.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}
