package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/app/repositories/memory"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

var fixedNow = time.Date(2026, time.October, 15, 14, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) *studentServiceImpl {
	t.Helper()
	svc := NewStudentService(memory.NewStudentStore(), zerolog.Nop()).(*studentServiceImpl)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func strPtr(s string) *string { return &s }

func newInput(first, email, course string, year int) *models.StudentInput {
	return &models.StudentInput{
		FirstName:   first,
		LastName:    "Tester",
		Email:       email,
		Phone:       "9876543210",
		DateOfBirth: time.Date(2002, time.May, 15, 0, 0, 0, 0, time.UTC),
		Gender:      "Female",
		Address:     "42 Elm St",
		Course:      course,
		Year:        year,
	}
}

func mustCreate(t *testing.T, svc StudentService, in *models.StudentInput) *models.Student {
	t.Helper()
	s, err := svc.CreateStudent(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateStudent(%s) failed: %v", in.Email, err)
	}
	return s
}

func TestCreateStudent_ForcesActiveStatusAndEnrollmentDate(t *testing.T) {
	svc := newTestService(t)
	in := newInput("Ann", "a@x.com", "CS", 1)
	in.Status = strPtr("Graduated")

	s := mustCreate(t, svc, in)

	if s.ID == 0 {
		t.Error("Expected an assigned ID")
	}
	if s.Status != models.StatusActive {
		t.Errorf("Status = %q, want %q", s.Status, models.StatusActive)
	}
	want := time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC)
	if !s.EnrollmentDate.Equal(want) {
		t.Errorf("EnrollmentDate = %v, want %v", s.EnrollmentDate, want)
	}
	if s.Email != "a@x.com" || s.Course != "CS" || s.Year != 1 {
		t.Errorf("Unexpected stored fields: %+v", s)
	}
}

func TestCreateStudent_DuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	mustCreate(t, svc, newInput("A", "a@x.com", "CS", 1))

	_, err := svc.CreateStudent(ctx, newInput("B", "a@x.com", "EE", 2))
	if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Fatalf("Expected ErrEmailAlreadyExists, got %v", err)
	}
	if msg := apperrors.MessageOf(err, ""); msg != "Student with email a@x.com already exists" {
		t.Errorf("Unexpected message %q", msg)
	}

	all, err := svc.GetAllStudents(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("Expected exactly one student, got %d", len(all))
	}
}

func TestCreateStudent_NilInput(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.CreateStudent(context.Background(), nil); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("Expected ErrValidationFailed, got %v", err)
	}
	if _, err := svc.UpdateStudent(context.Background(), 1, nil); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("Expected ErrValidationFailed, got %v", err)
	}
}

func TestUpdateStudent(t *testing.T) {
	ctx := context.Background()

	t.Run("overwrites fields and keeps identity", func(t *testing.T) {
		svc := newTestService(t)
		created := mustCreate(t, svc, newInput("A", "a@x.com", "CS", 1))
		svc.now = func() time.Time { return fixedNow.AddDate(1, 0, 0) }

		in := newInput("Alice", "alice@x.com", "EE", 3)
		updated, err := svc.UpdateStudent(ctx, created.ID, in)
		if err != nil {
			t.Fatalf("UpdateStudent failed: %v", err)
		}
		if updated.ID != created.ID {
			t.Errorf("ID changed from %d to %d", created.ID, updated.ID)
		}
		if !updated.EnrollmentDate.Equal(created.EnrollmentDate) {
			t.Errorf("EnrollmentDate changed to %v", updated.EnrollmentDate)
		}
		if updated.FirstName != "Alice" || updated.Email != "alice@x.com" || updated.Course != "EE" || updated.Year != 3 {
			t.Errorf("Fields not overwritten: %+v", updated)
		}
		if updated.Status != models.StatusActive {
			t.Errorf("Absent status should be kept, got %q", updated.Status)
		}
	})

	t.Run("supplied status is stored as given", func(t *testing.T) {
		svc := newTestService(t)
		created := mustCreate(t, svc, newInput("A", "a@x.com", "CS", 1))

		in := newInput("A", "a@x.com", "CS", 1)
		in.Status = strPtr("Suspended")
		updated, err := svc.UpdateStudent(ctx, created.ID, in)
		if err != nil {
			t.Fatal(err)
		}
		if updated.Status != "Suspended" {
			t.Errorf("Status = %q, want Suspended", updated.Status)
		}

		got, _ := svc.GetStudentByID(ctx, created.ID)
		if got.Status != "Suspended" {
			t.Errorf("Persisted status = %q, want Suspended", got.Status)
		}
	})

	t.Run("keeping own email is allowed", func(t *testing.T) {
		svc := newTestService(t)
		created := mustCreate(t, svc, newInput("A", "a@x.com", "CS", 1))
		if _, err := svc.UpdateStudent(ctx, created.ID, newInput("Renamed", "a@x.com", "CS", 2)); err != nil {
			t.Errorf("Expected update with unchanged email to succeed, got %v", err)
		}
	})

	t.Run("email taken by another student", func(t *testing.T) {
		svc := newTestService(t)
		a := mustCreate(t, svc, newInput("A", "a@x.com", "CS", 1))
		mustCreate(t, svc, newInput("B", "b@x.com", "CS", 1))

		_, err := svc.UpdateStudent(ctx, a.ID, newInput("A", "b@x.com", "CS", 1))
		if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			t.Fatalf("Expected ErrEmailAlreadyExists, got %v", err)
		}
		got, _ := svc.GetStudentByID(ctx, a.ID)
		if got.Email != "a@x.com" {
			t.Errorf("Failed update leaked a change: email = %q", got.Email)
		}
	})

	t.Run("missing student", func(t *testing.T) {
		svc := newTestService(t)
		_, err := svc.UpdateStudent(ctx, 999, newInput("A", "a@x.com", "CS", 1))
		if !errors.Is(err, apperrors.ErrStudentNotFound) {
			t.Fatalf("Expected ErrStudentNotFound, got %v", err)
		}
		if msg := apperrors.MessageOf(err, ""); msg != "Student not found with ID: 999" {
			t.Errorf("Unexpected message %q", msg)
		}
	})
}

func TestDeleteStudent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	a := mustCreate(t, svc, newInput("A", "a@x.com", "CS", 1))

	if err := svc.DeleteStudent(ctx, a.ID); err != nil {
		t.Fatalf("DeleteStudent failed: %v", err)
	}
	if _, err := svc.GetStudentByID(ctx, a.ID); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("Expected ErrStudentNotFound after delete, got %v", err)
	}
	if err := svc.DeleteStudent(ctx, a.ID); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("Expected ErrStudentNotFound on second delete, got %v", err)
	}

	// Freed emails may be registered again, identifiers are not reused
	b := mustCreate(t, svc, newInput("A", "a@x.com", "CS", 1))
	if b.ID == a.ID {
		t.Errorf("Identifier %d was reused", a.ID)
	}
}

func TestQueries(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := mustCreate(t, svc, newInput("Alice", "alice@uni.edu", "Computer Science", 1))
	bob := mustCreate(t, svc, newInput("Bob", "bob@uni.edu", "Physics", 2))
	mustCreate(t, svc, newInput("Carol", "carol@uni.edu", "Computer Science", 2))

	in := newInput("Bob", "bob@uni.edu", "Physics", 2)
	in.Status = strPtr("Inactive")
	if _, err := svc.UpdateStudent(ctx, bob.ID, in); err != nil {
		t.Fatal(err)
	}

	ids := func(students []*models.Student, err error) []int64 {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
		out := []int64{}
		for _, s := range students {
			out = append(out, s.ID)
		}
		return out
	}

	tests := []struct {
		name string
		got  []int64
		want int
	}{
		{"all", ids(svc.GetAllStudents(ctx)), 3},
		{"search is case insensitive", ids(svc.SearchStudents(ctx, "ALICE")), 1},
		{"search on course", ids(svc.SearchStudents(ctx, "science")), 2},
		{"empty keyword matches everything", ids(svc.SearchStudents(ctx, "")), 3},
		{"search without match", ids(svc.SearchStudents(ctx, "zzz")), 0},
		{"by status", ids(svc.GetStudentsByStatus(ctx, "Active")), 2},
		{"status is exact", ids(svc.GetStudentsByStatus(ctx, "active")), 0},
		{"by course", ids(svc.GetStudentsByCourse(ctx, "Physics")), 1},
		{"by year", ids(svc.GetStudentsByYear(ctx, 2)), 2},
		{"unknown year", ids(svc.GetStudentsByYear(ctx, 9)), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.got) != tt.want {
				t.Errorf("got %d students %v, want %d", len(tt.got), tt.got, tt.want)
			}
		})
	}

	if got := ids(svc.SearchStudents(ctx, "alice@")); len(got) != 1 || got[0] != alice.ID {
		t.Errorf("Search by email = %v, want [%d]", got, alice.ID)
	}
}

func TestGetDashboardStats(t *testing.T) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		svc := newTestService(t)
		stats, err := svc.GetDashboardStats(ctx)
		if err != nil {
			t.Fatal(err)
		}
		want := &models.DashboardStats{CourseDistribution: map[string]int64{}}
		if !reflect.DeepEqual(stats, want) {
			t.Errorf("got %+v, want %+v", stats, want)
		}
	})

	t.Run("course distribution", func(t *testing.T) {
		svc := newTestService(t)
		for i, email := range []string{"c1@x.com", "c2@x.com", "c3@x.com"} {
			mustCreate(t, svc, newInput("CS", email, "CS", i+1))
		}
		for _, email := range []string{"e1@x.com", "e2@x.com"} {
			mustCreate(t, svc, newInput("EE", email, "EE", 1))
		}

		stats, err := svc.GetDashboardStats(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if want := map[string]int64{"CS": 3, "EE": 2}; !reflect.DeepEqual(stats.CourseDistribution, want) {
			t.Errorf("CourseDistribution = %v, want %v", stats.CourseDistribution, want)
		}
		if stats.TotalStudents != 5 || stats.ActiveStudents != 5 || stats.InactiveStudents != 0 {
			t.Errorf("Unexpected totals %+v", stats)
		}
	})

	t.Run("inactive is everything not exactly Active", func(t *testing.T) {
		svc := newTestService(t)
		a := mustCreate(t, svc, newInput("A", "a@x.com", "CS", 1))
		b := mustCreate(t, svc, newInput("B", "b@x.com", "CS", 1))
		mustCreate(t, svc, newInput("C", "c@x.com", "EE", 1))

		for id, status := range map[int64]string{a.ID: "Graduated", b.ID: "active"} {
			in := newInput("X", map[int64]string{a.ID: "a@x.com", b.ID: "b@x.com"}[id], "CS", 1)
			in.Status = strPtr(status)
			if _, err := svc.UpdateStudent(ctx, id, in); err != nil {
				t.Fatal(err)
			}
		}

		stats, err := svc.GetDashboardStats(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if stats.TotalStudents != 3 || stats.ActiveStudents != 1 || stats.InactiveStudents != 2 {
			t.Errorf("Unexpected totals %+v", stats)
		}
		var sum int64
		for _, n := range stats.CourseDistribution {
			sum += n
		}
		if sum != stats.TotalStudents {
			t.Errorf("Distribution sums to %d, want %d", sum, stats.TotalStudents)
		}
	})
}

// failingStore fails every unit of work with err
type failingStore struct{ err error }

func (f failingStore) WithinTx(context.Context, repositories.TxFn) error         { return f.err }
func (f failingStore) WithinReadOnlyTx(context.Context, repositories.TxFn) error { return f.err }

func TestStorageFailuresAreWrapped(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewStudentService(failingStore{err: boom}, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.CreateStudent(ctx, newInput("A", "a@x.com", "CS", 1)); !errors.Is(err, boom) {
		t.Errorf("CreateStudent: expected wrapped storage error, got %v", err)
	}
	if _, err := svc.GetAllStudents(ctx); !errors.Is(err, boom) {
		t.Errorf("GetAllStudents: expected wrapped storage error, got %v", err)
	}
	_, err := svc.GetDashboardStats(ctx)
	if !errors.Is(err, boom) {
		t.Errorf("GetDashboardStats: expected wrapped storage error, got %v", err)
	}
	if apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrResourceAlreadyExists) {
		t.Error("Storage failure must not look like a domain error")
	}
}
