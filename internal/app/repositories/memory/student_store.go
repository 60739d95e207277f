// Package memory provides an in-process StudentStore. It honors the same
// contract as the PostgreSQL store, including email uniqueness and rollback.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
)

// StudentStore keeps students in a map guarded by a RWMutex.
// Read-only units of work share the lock; read-write ones hold it exclusively.
type StudentStore struct {
	mu       sync.RWMutex
	lastID   int64
	students map[int64]*models.Student
}

// NewStudentStore creates an empty store
func NewStudentStore() *StudentStore {
	return &StudentStore{students: map[int64]*models.Student{}}
}

var _ repositories.StudentStore = (*StudentStore)(nil)

// WithinTx runs fn exclusively and restores the previous rows if fn fails or panics.
// Identifiers handed out during a failed unit of work are not reused.
func (s *StudentStore) WithinTx(ctx context.Context, fn repositories.TxFn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[int64]*models.Student, len(s.students))
	for id, st := range s.students {
		snapshot[id] = st
	}

	committed := false
	defer func() {
		if !committed {
			s.students = snapshot
		}
	}()

	if err := fn(ctx, &studentRepository{store: s}); err != nil {
		return err
	}
	committed = true
	return nil
}

// WithinReadOnlyTx runs fn under the shared lock
func (s *StudentStore) WithinReadOnlyTx(ctx context.Context, fn repositories.TxFn) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(ctx, &studentRepository{store: s, readOnly: true})
}

// studentRepository is only valid while its unit of work holds the store lock.
type studentRepository struct {
	store    *StudentStore
	readOnly bool
}

func (r *studentRepository) sorted(match func(*models.Student) bool) []*models.Student {
	out := []*models.Student{}
	for _, st := range r.store.students {
		if match(st) {
			out = append(out, st.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *studentRepository) any(match func(*models.Student) bool) bool {
	for _, st := range r.store.students {
		if match(st) {
			return true
		}
	}
	return false
}

func (r *studentRepository) FindByID(_ context.Context, id int64) (*models.Student, error) {
	st, ok := r.store.students[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return st.Clone(), nil
}

func (r *studentRepository) FindByEmail(_ context.Context, email string) (*models.Student, error) {
	for _, st := range r.store.students {
		if st.Email == email {
			return st.Clone(), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *studentRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	return r.any(func(st *models.Student) bool { return st.Email == email }), nil
}

func (r *studentRepository) ExistsByEmailExcludingID(_ context.Context, email string, id int64) (bool, error) {
	return r.any(func(st *models.Student) bool { return st.Email == email && st.ID != id }), nil
}

func (r *studentRepository) FindAll(_ context.Context) ([]*models.Student, error) {
	return r.sorted(func(*models.Student) bool { return true }), nil
}

func (r *studentRepository) FindByStatus(_ context.Context, status string) ([]*models.Student, error) {
	return r.sorted(func(st *models.Student) bool { return st.Status == status }), nil
}

func (r *studentRepository) FindByCourse(_ context.Context, course string) ([]*models.Student, error) {
	return r.sorted(func(st *models.Student) bool { return st.Course == course }), nil
}

func (r *studentRepository) FindByYear(_ context.Context, year int) ([]*models.Student, error) {
	return r.sorted(func(st *models.Student) bool { return st.Year == year }), nil
}

func (r *studentRepository) Search(_ context.Context, keyword string) ([]*models.Student, error) {
	needle := strings.ToLower(keyword)
	return r.sorted(func(st *models.Student) bool {
		for _, field := range []string{st.FirstName, st.LastName, st.Email, st.Course, st.Phone} {
			if strings.Contains(strings.ToLower(field), needle) {
				return true
			}
		}
		return false
	}), nil
}

func (r *studentRepository) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.store.students)), nil
}

func (r *studentRepository) CountByStatus(_ context.Context, status string) (int64, error) {
	var n int64
	for _, st := range r.store.students {
		if st.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *studentRepository) CountGroupedByCourse(_ context.Context) (map[string]int64, error) {
	distribution := map[string]int64{}
	for _, st := range r.store.students {
		distribution[st.Course]++
	}
	return distribution, nil
}

func (r *studentRepository) Save(_ context.Context, s *models.Student) (*models.Student, error) {
	if r.readOnly {
		return nil, errReadOnly
	}

	// Mirrors the students_email_key unique constraint
	if r.any(func(st *models.Student) bool { return st.Email == s.Email && st.ID != s.ID }) {
		return nil, repositories.ErrDuplicateEmail
	}

	saved := s.Clone()
	if saved.ID == 0 {
		r.store.lastID++
		saved.ID = r.store.lastID
	} else if _, ok := r.store.students[saved.ID]; !ok {
		return nil, repositories.ErrNotFound
	}

	r.store.students[saved.ID] = saved
	return saved.Clone(), nil
}

func (r *studentRepository) Delete(_ context.Context, s *models.Student) error {
	if r.readOnly {
		return errReadOnly
	}
	if _, ok := r.store.students[s.ID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.store.students, s.ID)
	return nil
}
