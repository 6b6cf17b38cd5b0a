package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"student_mgmt/internal/model"
	"student_mgmt/internal/repository"
)

// memStore is an in-memory stand-in for the Postgres schema: unique usernames, a unique
// (student, course) pair and cascading deletes.
type memStore struct {
	mu          sync.Mutex
	nextID      int64
	clock       time.Time
	users       map[int64]model.User
	courses     map[int64]model.Course
	enrollments map[int64]model.Enrollment
	failWith    error
}

func newMemStore() *memStore {
	return &memStore{
		clock:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		users:       map[int64]model.User{},
		courses:     map[int64]model.Course{},
		enrollments: map[int64]model.Enrollment{},
	}
}

// tick advances the fake clock so every write gets a distinct timestamp.
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func contains(haystack, q string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(q))
}

func pageOf[T any](items []T, page, size int) *model.Page[T] {
	p, offset, total := model.Paginate(int64(len(items)), page, size)
	end := min(offset+size, len(items))
	return &model.Page[T]{Items: items[offset:end], Total: int64(len(items)), Page: p, PageSize: size, TotalPages: total}
}

type memUsers struct{ *memStore }

func (r memUsers) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	for _, other := range r.users {
		if other.Username == u.Username {
			return errors.Join(repository.ErrDuplicate, errors.New("users_username_key"))
		}
	}
	u.ID = r.id()
	u.DateJoined = r.tick()
	r.users[u.ID] = *u
	return nil
}

func (r memUsers) FindByID(_ context.Context, id int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r memUsers) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (r memUsers) Update(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, other := range r.users {
		if other.ID != u.ID && other.Username == u.Username {
			return repository.ErrDuplicate
		}
	}
	u.Role = old.Role
	u.DateJoined = old.DateJoined
	r.users[u.ID] = *u
	return nil
}

func (r memUsers) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	for eid, e := range r.enrollments {
		if e.StudentID == id {
			delete(r.enrollments, eid)
		}
	}
	return nil
}

func (r memUsers) List(_ context.Context, f model.UserFilters) (*model.Page[model.User], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Query != "" && !contains(u.Username, f.Query) && !contains(u.Email, f.Query) &&
			!contains(u.FirstName, f.Query) && !contains(u.LastName, f.Query) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateJoined.After(out[j].DateJoined) })
	return pageOf(out, f.Page, f.PageSize), nil
}

func (r memUsers) CountByRole(_ context.Context, role model.Role) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r memUsers) RecentByRole(ctx context.Context, role model.Role, limit int) ([]model.User, error) {
	p, err := r.List(ctx, model.UserFilters{Role: role, Page: 1, PageSize: limit})
	if err != nil {
		return nil, err
	}
	return p.Items, nil
}

type memCourses struct{ *memStore }

func (r memCourses) Create(_ context.Context, c *model.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.id()
	c.CreatedAt = r.tick()
	r.courses[c.ID] = *c
	return nil
}

func (r memCourses) FindByID(_ context.Context, id int64) (*model.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r memCourses) Update(_ context.Context, c *model.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.courses[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	c.CreatedAt = old.CreatedAt
	r.courses[c.ID] = *c
	return nil
}

func (r memCourses) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.courses, id)
	for eid, e := range r.enrollments {
		if e.CourseID == id {
			delete(r.enrollments, eid)
		}
	}
	return nil
}

func (r memCourses) sorted(q string) []model.Course {
	var out []model.Course
	for _, c := range r.courses {
		if q == "" || contains(c.Title, q) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r memCourses) List(_ context.Context, f model.CourseFilters) (*model.Page[model.Course], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return pageOf(r.sorted(f.Query), f.Page, f.PageSize), nil
}

func (r memCourses) FindAll(_ context.Context) ([]model.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(""), nil
}

func (r memCourses) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.courses)), nil
}

type memEnrollments struct{ *memStore }

func (r memEnrollments) insert(e *model.Enrollment) error {
	if _, ok := r.users[e.StudentID]; !ok {
		return repository.ErrReference
	}
	if _, ok := r.courses[e.CourseID]; !ok {
		return repository.ErrReference
	}
	for _, other := range r.enrollments {
		if other.ID != e.ID && other.StudentID == e.StudentID && other.CourseID == e.CourseID {
			return repository.ErrDuplicate
		}
	}
	now := r.tick()
	if e.ID == 0 {
		e.ID = r.id()
		e.EnrolledAt = now
	}
	e.UpdatedAt = now
	r.enrollments[e.ID] = *e
	return nil
}

func (r memEnrollments) Create(_ context.Context, e *model.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(e)
}

func (r memEnrollments) GetOrCreate(_ context.Context, studentID, courseID int64, status model.EnrollmentStatus) (*model.Enrollment, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return &e, false, nil
		}
	}
	e := &model.Enrollment{StudentID: studentID, CourseID: courseID, Status: status}
	if err := r.insert(e); err != nil {
		return nil, false, err
	}
	return e, true, nil
}

func (r memEnrollments) FindByID(_ context.Context, id int64) (*model.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.enrollments[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r memEnrollments) FindByStudentAndCourse(_ context.Context, studentID, courseID int64) (*model.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return &e, nil
		}
	}
	return nil, nil
}

func (r memEnrollments) detail(e model.Enrollment) model.EnrollmentDetail {
	u, c := r.users[e.StudentID], r.courses[e.CourseID]
	return model.EnrollmentDetail{Enrollment: e, StudentUsername: u.Username, StudentEmail: u.Email, CourseTitle: c.Title}
}

func (r memEnrollments) filtered(keep func(model.EnrollmentDetail) bool) []model.EnrollmentDetail {
	var out []model.EnrollmentDetail
	for _, e := range r.enrollments {
		if d := r.detail(e); keep(d) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EnrolledAt.After(out[j].EnrolledAt) })
	return out
}

func (r memEnrollments) FindByStudent(_ context.Context, studentID int64, statuses ...model.EnrollmentStatus) ([]model.EnrollmentDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filtered(func(d model.EnrollmentDetail) bool {
		if d.StudentID != studentID {
			return false
		}
		if len(statuses) == 0 {
			return true
		}
		for _, s := range statuses {
			if d.Status == s {
				return true
			}
		}
		return false
	}), nil
}

func (r memEnrollments) Update(_ context.Context, e *model.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.enrollments[e.ID]
	if !ok {
		return repository.ErrNotFound
	}
	e.EnrolledAt = old.EnrolledAt
	return r.insert(e)
}

func (r memEnrollments) UpdateStatus(_ context.Context, id int64, status model.EnrollmentStatus) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.enrollments[id]
	if !ok {
		return time.Time{}, repository.ErrNotFound
	}
	e.Status = status
	e.UpdatedAt = r.tick()
	r.enrollments[id] = e
	return e.UpdatedAt, nil
}

func (r memEnrollments) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.enrollments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.enrollments, id)
	return nil
}

func (r memEnrollments) matches(f model.EnrollmentFilters) func(model.EnrollmentDetail) bool {
	return func(d model.EnrollmentDetail) bool {
		if f.Status != "" && d.Status != f.Status {
			return false
		}
		if f.Query != "" && !contains(d.StudentUsername, f.Query) && !contains(d.StudentEmail, f.Query) &&
			!contains(d.CourseTitle, f.Query) {
			return false
		}
		return true
	}
}

func (r memEnrollments) List(_ context.Context, f model.EnrollmentFilters) (*model.Page[model.EnrollmentDetail], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return pageOf(r.filtered(r.matches(f)), f.Page, f.PageSize), nil
}

func (r memEnrollments) FindAll(_ context.Context, f model.EnrollmentFilters) ([]model.EnrollmentDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filtered(r.matches(f)), nil
}

func (r memEnrollments) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.enrollments)), nil
}

var (
	_ repository.UserRepository       = memUsers{}
	_ repository.CourseRepository     = memCourses{}
	_ repository.EnrollmentRepository = memEnrollments{}
)
