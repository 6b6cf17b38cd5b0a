//go:build integration

package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"student_mgmt/internal/config"
	"student_mgmt/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// startPostgres runs a throwaway postgres, applies the embedded migrations and returns a pool.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := postgres.RunContainer(ctx,
		tc.WithImage("postgres:17-alpine"),
		postgres.WithDatabase("students"),
		postgres.WithUsername("students"),
		postgres.WithPassword("students"),
		tc.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(time.Minute)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		stopCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		_ = pg.Terminate(stopCtx)
	})

	uri, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := config.ConnectDB(ctx, uri, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, config.Migrate(ctx, pool, zap.NewNop()))
	return pool
}

func TestIntegration_Ledger(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	users := NewUserRepository(pool)
	courses := NewCourseRepository(pool)
	enrollments := NewEnrollmentRepository(pool)

	bob := &model.User{Username: "bob", Email: "b@x.com", Role: model.RoleStudent}
	require.NoError(t, users.Create(ctx, bob))
	amy := &model.User{Username: "amy", Email: "amy@x.com", Role: model.RoleStudent}
	require.NoError(t, users.Create(ctx, amy))

	goCourse := &model.Course{Title: "Go basics", Description: "d", Duration: "4 weeks"}
	require.NoError(t, courses.Create(ctx, goCourse))
	sqlCourse := &model.Course{Title: "SQL", Description: "d", Duration: "2 weeks"}
	require.NoError(t, courses.Create(ctx, sqlCourse))

	t.Run("concurrent get-or-create keeps one row", func(t *testing.T) {
		const callers = 16
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			ids     = map[int64]struct{}{}
			created int
		)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				e, isNew, err := enrollments.GetOrCreate(ctx, bob.ID, goCourse.ID, model.StatusPending)
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				defer mu.Unlock()
				ids[e.ID] = struct{}{}
				if isNew {
					created++
				}
			}()
		}
		wg.Wait()

		assert.Len(t, ids, 1)
		assert.Equal(t, 1, created)

		var n int
		require.NoError(t, pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM enrollments WHERE student_id = $1 AND course_id = $2`, bob.ID, goCourse.ID).Scan(&n))
		assert.Equal(t, 1, n)
	})

	t.Run("duplicate create is rejected", func(t *testing.T) {
		err := enrollments.Create(ctx, &model.Enrollment{StudentID: bob.ID, CourseID: goCourse.ID, Status: model.StatusNotStarted})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("status update bumps updated_at", func(t *testing.T) {
		e, err := enrollments.FindByStudentAndCourse(ctx, bob.ID, goCourse.ID)
		require.NoError(t, err)
		require.NotNil(t, e)

		updatedAt, err := enrollments.UpdateStatus(ctx, e.ID, model.StatusCompleted)
		require.NoError(t, err)
		assert.False(t, updatedAt.Before(e.UpdatedAt))
	})

	t.Run("filters compose", func(t *testing.T) {
		require.NoError(t, enrollments.Create(ctx, &model.Enrollment{StudentID: amy.ID, CourseID: goCourse.ID, Status: model.StatusInProgress}))
		require.NoError(t, enrollments.Create(ctx, &model.Enrollment{StudentID: amy.ID, CourseID: sqlCourse.ID, Status: model.StatusCompleted}))

		page, err := enrollments.List(ctx, model.EnrollmentFilters{Query: "go", Status: model.StatusCompleted, Page: 1, PageSize: 10})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "bob", page.Items[0].StudentUsername)
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("deleting a course cascades", func(t *testing.T) {
		require.NoError(t, courses.Delete(ctx, sqlCourse.ID))

		mine, err := enrollments.FindByStudent(ctx, amy.ID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, goCourse.ID, mine[0].CourseID)
	})

	t.Run("deleting a user cascades", func(t *testing.T) {
		require.NoError(t, users.Delete(ctx, bob.ID))

		e, err := enrollments.FindByStudentAndCourse(ctx, bob.ID, goCourse.ID)
		require.NoError(t, err)
		assert.Nil(t, e)

		u, err := users.FindByUsername(ctx, "bob")
		require.NoError(t, err)
		assert.Nil(t, u)
	})
}
