// Package repotest holds the behavioral contract every StudentStore
// implementation must satisfy. Adapters run it from their own tests.
package repotest

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
)

// NewStoreFunc returns an empty store for one subtest
type NewStoreFunc func(t *testing.T) repositories.StudentStore

// NewStudent builds a valid, unsaved student
func NewStudent(first, last, email, course string, year int) *models.Student {
	return &models.Student{
		FirstName:      first,
		LastName:       last,
		Email:          email,
		Phone:          "9876543210",
		DateOfBirth:    time.Date(2002, time.May, 15, 0, 0, 0, 0, time.UTC),
		Gender:         "Male",
		Address:        "123 Main St",
		Course:         course,
		Year:           year,
		EnrollmentDate: time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC),
		Status:         models.StatusActive,
	}
}

// MustSave saves s in its own unit of work
func MustSave(t *testing.T, store repositories.StudentStore, s *models.Student) *models.Student {
	t.Helper()
	var saved *models.Student
	err := store.WithinTx(context.Background(), func(ctx context.Context, repo repositories.StudentRepository) error {
		var err error
		saved, err = repo.Save(ctx, s)
		return err
	})
	if err != nil {
		t.Fatalf("Save(%s) failed: %v", s.Email, err)
	}
	return saved
}

func read(t *testing.T, store repositories.StudentStore, fn repositories.TxFn) {
	t.Helper()
	if err := store.WithinReadOnlyTx(context.Background(), fn); err != nil {
		t.Fatalf("read-only unit of work failed: %v", err)
	}
}

func emails(students []*models.Student) []string {
	out := make([]string, 0, len(students))
	for _, s := range students {
		out = append(out, s.Email)
	}
	sort.Strings(out)
	return out
}

// RunStudentStoreContract exercises every StudentRepository operation through store
func RunStudentStoreContract(t *testing.T, newStore NewStoreFunc) {
	t.Run("SaveAssignsIDAndFindByID", func(t *testing.T) {
		store := newStore(t)
		saved := MustSave(t, store, NewStudent("John", "Doe", "john.doe@example.com", "CS", 2))
		if saved.ID == 0 {
			t.Fatal("Expected a system assigned ID")
		}

		read(t, store, func(ctx context.Context, repo repositories.StudentRepository) error {
			got, err := repo.FindByID(ctx, saved.ID)
			if err != nil {
				t.Fatalf("FindByID failed: %v", err)
			}
			if got.Email != "john.doe@example.com" || got.Course != "CS" || got.Year != 2 {
				t.Errorf("FindByID returned %+v", got)
			}
			if !got.DateOfBirth.Equal(saved.DateOfBirth) {
				t.Errorf("DateOfBirth = %v, want %v", got.DateOfBirth, saved.DateOfBirth)
			}
			if !got.EnrollmentDate.Equal(saved.EnrollmentDate) {
				t.Errorf("EnrollmentDate = %v, want %v", got.EnrollmentDate, saved.EnrollmentDate)
			}
			return nil
		})
	})

	t.Run("IDsAreNotReused", func(t *testing.T) {
		store := newStore(t)
		first := MustSave(t, store, NewStudent("A", "A", "a@x.com", "CS", 1))
		err := store.WithinTx(context.Background(), func(ctx context.Context, repo repositories.StudentRepository) error {
			return repo.Delete(ctx, first)
		})
		if err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		second := MustSave(t, store, NewStudent("B", "B", "b@x.com", "CS", 1))
		if second.ID <= first.ID {
			t.Errorf("second ID %d should be greater than deleted ID %d", second.ID, first.ID)
		}
	})

	t.Run("FindMissing", func(t *testing.T) {
		store := newStore(t)
		read(t, store, func(ctx context.Context, repo repositories.StudentRepository) error {
			if _, err := repo.FindByID(ctx, 4242); !errors.Is(err, repositories.ErrNotFound) {
				t.Errorf("FindByID error = %v, want ErrNotFound", err)
			}
			if _, err := repo.FindByEmail(ctx, "nobody@x.com"); !errors.Is(err, repositories.ErrNotFound) {
				t.Errorf("FindByEmail error = %v, want ErrNotFound", err)
			}
			return nil
		})
	})

	t.Run("EmailExistence", func(t *testing.T) {
		store := newStore(t)
		a := MustSave(t, store, NewStudent("A", "A", "a@x.com", "CS", 1))
		b := MustSave(t, store, NewStudent("B", "B", "b@x.com", "CS", 1))

		read(t, store, func(ctx context.Context, repo repositories.StudentRepository) error {
			got, err := repo.FindByEmail(ctx, "b@x.com")
			if err != nil || got.ID != b.ID {
				t.Errorf("FindByEmail = %v, %v", got, err)
			}

			checks := []struct {
				name string
				fn   func() (bool, error)
				want bool
			}{
				{"exists", func() (bool, error) { return repo.ExistsByEmail(ctx, "a@x.com") }, true},
				{"case sensitive", func() (bool, error) { return repo.ExistsByEmail(ctx, "A@X.COM") }, false},
				{"missing", func() (bool, error) { return repo.ExistsByEmail(ctx, "c@x.com") }, false},
				{"own email excluded", func() (bool, error) { return repo.ExistsByEmailExcludingID(ctx, "a@x.com", a.ID) }, false},
				{"other record", func() (bool, error) { return repo.ExistsByEmailExcludingID(ctx, "a@x.com", b.ID) }, true},
			}
			for _, c := range checks {
				got, err := c.fn()
				if err != nil {
					t.Fatalf("%s: %v", c.name, err)
				}
				if got != c.want {
					t.Errorf("%s = %v, want %v", c.name, got, c.want)
				}
			}
			return nil
		})
	})

	t.Run("Filters", func(t *testing.T) {
		store := newStore(t)
		MustSave(t, store, NewStudent("A", "A", "a@x.com", "CS", 1))
		b := NewStudent("B", "B", "b@x.com", "EE", 2)
		b.Status = "Graduated"
		MustSave(t, store, b)
		MustSave(t, store, NewStudent("C", "C", "c@x.com", "CS", 2))

		read(t, store, func(ctx context.Context, repo repositories.StudentRepository) error {
			all, err := repo.FindAll(ctx)
			if err != nil {
				t.Fatalf("FindAll failed: %v", err)
			}
			if len(all) != 3 {
				t.Errorf("FindAll returned %d students, want 3", len(all))
			}

			byStatus, _ := repo.FindByStatus(ctx, models.StatusActive)
			if got := emails(byStatus); !reflect.DeepEqual(got, []string{"a@x.com", "c@x.com"}) {
				t.Errorf("FindByStatus(Active) = %v", got)
			}
			byStatusLower, _ := repo.FindByStatus(ctx, "active")
			if len(byStatusLower) != 0 {
				t.Errorf("FindByStatus is exact match, got %v", emails(byStatusLower))
			}

			byCourse, _ := repo.FindByCourse(ctx, "CS")
			if got := emails(byCourse); !reflect.DeepEqual(got, []string{"a@x.com", "c@x.com"}) {
				t.Errorf("FindByCourse(CS) = %v", got)
			}

			byYear, _ := repo.FindByYear(ctx, 2)
			if got := emails(byYear); !reflect.DeepEqual(got, []string{"b@x.com", "c@x.com"}) {
				t.Errorf("FindByYear(2) = %v", got)
			}

			none, err := repo.FindByCourse(ctx, "Astrology")
			if err != nil || none == nil || len(none) != 0 {
				t.Errorf("FindByCourse(unknown) = %v, %v; want empty, non-nil", none, err)
			}
			return nil
		})
	})

	t.Run("Search", func(t *testing.T) {
		store := newStore(t)
		MustSave(t, store, NewStudent("Jane", "Smith", "John.Doe@example.com", "Electrical Engineering", 3))
		mary := NewStudent("Mary", "Jones", "mary@example.com", "Computer Science", 1)
		mary.Phone = "5550001111"
		MustSave(t, store, mary)
		MustSave(t, store, NewStudent("Percent", "Sign", "p100@example.com", "Stats 100%", 2))

		tests := []struct {
			keyword string
			want    []string
		}{
			{"", []string{"John.Doe@example.com", "mary@example.com", "p100@example.com"}},
			{"john", []string{"John.Doe@example.com"}},
			{"SMITH", []string{"John.Doe@example.com"}},
			{"science", []string{"mary@example.com"}},
			{"0001", []string{"mary@example.com"}},
			{"%", []string{"p100@example.com"}},
			{"_", []string{}},
			{"nomatch", []string{}},
		}

		read(t, store, func(ctx context.Context, repo repositories.StudentRepository) error {
			for _, tt := range tests {
				got, err := repo.Search(ctx, tt.keyword)
				if err != nil {
					t.Fatalf("Search(%q) failed: %v", tt.keyword, err)
				}
				if e := emails(got); !reflect.DeepEqual(e, tt.want) {
					t.Errorf("Search(%q) = %v, want %v", tt.keyword, e, tt.want)
				}
			}
			return nil
		})
	})

	t.Run("Counts", func(t *testing.T) {
		store := newStore(t)
		for i, course := range []string{"CS", "CS", "CS", "EE", "EE"} {
			s := NewStudent("S", "S", string(rune('a'+i))+"@x.com", course, 1)
			if i == 4 {
				s.Status = "Inactive"
			}
			MustSave(t, store, s)
		}

		read(t, store, func(ctx context.Context, repo repositories.StudentRepository) error {
			total, _ := repo.CountAll(ctx)
			if total != 5 {
				t.Errorf("CountAll = %d, want 5", total)
			}
			active, _ := repo.CountByStatus(ctx, models.StatusActive)
			if active != 4 {
				t.Errorf("CountByStatus(Active) = %d, want 4", active)
			}
			dist, err := repo.CountGroupedByCourse(ctx)
			if err != nil {
				t.Fatalf("CountGroupedByCourse failed: %v", err)
			}
			if want := map[string]int64{"CS": 3, "EE": 2}; !reflect.DeepEqual(dist, want) {
				t.Errorf("CountGroupedByCourse = %v, want %v", dist, want)
			}
			return nil
		})
	})

	t.Run("SaveOverwritesExisting", func(t *testing.T) {
		store := newStore(t)
		saved := MustSave(t, store, NewStudent("A", "A", "a@x.com", "CS", 1))

		saved.FirstName = "Alice"
		saved.Status = "Suspended"
		MustSave(t, store, saved)

		read(t, store, func(ctx context.Context, repo repositories.StudentRepository) error {
			got, err := repo.FindByID(ctx, saved.ID)
			if err != nil {
				t.Fatalf("FindByID failed: %v", err)
			}
			if got.FirstName != "Alice" || got.Status != "Suspended" {
				t.Errorf("overwrite not persisted: %+v", got)
			}
			return nil
		})
	})

	t.Run("UniqueEmailBackstop", func(t *testing.T) {
		store := newStore(t)
		MustSave(t, store, NewStudent("A", "A", "a@x.com", "CS", 1))
		b := MustSave(t, store, NewStudent("B", "B", "b@x.com", "CS", 1))

		err := store.WithinTx(context.Background(), func(ctx context.Context, repo repositories.StudentRepository) error {
			_, err := repo.Save(ctx, NewStudent("C", "C", "a@x.com", "CS", 1))
			return err
		})
		if !errors.Is(err, repositories.ErrDuplicateEmail) {
			t.Errorf("insert duplicate error = %v, want ErrDuplicateEmail", err)
		}

		b.Email = "a@x.com"
		err = store.WithinTx(context.Background(), func(ctx context.Context, repo repositories.StudentRepository) error {
			_, err := repo.Save(ctx, b)
			return err
		})
		if !errors.Is(err, repositories.ErrDuplicateEmail) {
			t.Errorf("update duplicate error = %v, want ErrDuplicateEmail", err)
		}
	})

	t.Run("DeleteAndRollback", func(t *testing.T) {
		store := newStore(t)
		a := MustSave(t, store, NewStudent("A", "A", "a@x.com", "CS", 1))

		boom := errors.New("boom")
		err := store.WithinTx(context.Background(), func(ctx context.Context, repo repositories.StudentRepository) error {
			if err := repo.Delete(ctx, a); err != nil {
				return err
			}
			if _, err := repo.Save(ctx, NewStudent("B", "B", "b@x.com", "CS", 1)); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("WithinTx error = %v, want boom", err)
		}

		read(t, store, func(ctx context.Context, repo repositories.StudentRepository) error {
			all, _ := repo.FindAll(ctx)
			if got := emails(all); !reflect.DeepEqual(got, []string{"a@x.com"}) {
				t.Errorf("after rollback FindAll = %v, want [a@x.com]", got)
			}
			return nil
		})

		err = store.WithinTx(context.Background(), func(ctx context.Context, repo repositories.StudentRepository) error {
			return repo.Delete(ctx, a)
		})
		if err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		err = store.WithinTx(context.Background(), func(ctx context.Context, repo repositories.StudentRepository) error {
			return repo.Delete(ctx, a)
		})
		if !errors.Is(err, repositories.ErrNotFound) {
			t.Errorf("second Delete error = %v, want ErrNotFound", err)
		}
	})

	t.Run("ReadOnlyRejectsWrites", func(t *testing.T) {
		store := newStore(t)
		err := store.WithinReadOnlyTx(context.Background(), func(ctx context.Context, repo repositories.StudentRepository) error {
			_, err := repo.Save(ctx, NewStudent("A", "A", "a@x.com", "CS", 1))
			return err
		})
		if err == nil {
			t.Error("Expected a write inside a read-only unit of work to fail")
		}
	})
}
