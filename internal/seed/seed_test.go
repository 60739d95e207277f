package seed

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/app/repositories/memory"
	"github.com/yigit/studentrecords/internal/app/repositories/repotest"
)

func allStudents(t *testing.T, store repositories.StudentStore) []*models.Student {
	t.Helper()
	var out []*models.Student
	err := store.WithinReadOnlyTx(context.Background(), func(ctx context.Context, repo repositories.StudentRepository) error {
		var err error
		out, err = repo.FindAll(ctx)
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestCreateDefaultData_EmptyStore(t *testing.T) {
	store := memory.NewStudentStore()
	now := time.Date(2026, time.October, 15, 9, 0, 0, 0, time.UTC)

	if err := createDefaultData(context.Background(), store, zerolog.Nop(), now); err != nil {
		t.Fatalf("createDefaultData failed: %v", err)
	}

	students := allStudents(t, store)
	if len(students) != len(sampleStudents) {
		t.Fatalf("got %d students, want %d", len(students), len(sampleStudents))
	}
	for _, s := range students {
		if s.Status != models.StatusActive {
			t.Errorf("%s: status = %q", s.Email, s.Status)
		}
		want := time.Date(2026-(s.Year-1), time.October, 15, 0, 0, 0, 0, time.UTC)
		if !s.EnrollmentDate.Equal(want) {
			t.Errorf("%s: enrollment = %v, want %v", s.Email, s.EnrollmentDate, want)
		}
	}

	// Running again must not duplicate anything
	if err := createDefaultData(context.Background(), store, zerolog.Nop(), now); err != nil {
		t.Fatal(err)
	}
	if n := len(allStudents(t, store)); n != len(sampleStudents) {
		t.Errorf("second run changed row count to %d", n)
	}
}

func TestCreateDefaultData_NonEmptyStoreUntouched(t *testing.T) {
	store := memory.NewStudentStore()
	repotest.MustSave(t, store, repotest.NewStudent("Only", "One", "only@x.com", "Math", 1))

	if err := CreateDefaultData(context.Background(), store, zerolog.Nop()); err != nil {
		t.Fatal(err)
	}
	students := allStudents(t, store)
	if len(students) != 1 || students[0].Email != "only@x.com" {
		t.Errorf("existing data was modified: %+v", students)
	}
}
