package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/app/repositories/repotest"
)

func TestStudentStore_Contract(t *testing.T) {
	repotest.RunStudentStoreContract(t, func(t *testing.T) repositories.StudentStore {
		return NewStudentStore()
	})
}

func TestStudentStore_RollbackOnPanic(t *testing.T) {
	store := NewStudentStore()
	repotest.MustSave(t, store, repotest.NewStudent("A", "A", "a@x.com", "CS", 1))

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("Expected panic to propagate")
			}
		}()
		_ = store.WithinTx(context.Background(), func(ctx context.Context, repo repositories.StudentRepository) error {
			if _, err := repo.Save(ctx, repotest.NewStudent("B", "B", "b@x.com", "CS", 1)); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			panic("boom")
		})
	}()

	err := store.WithinReadOnlyTx(context.Background(), func(ctx context.Context, repo repositories.StudentRepository) error {
		n, _ := repo.CountAll(ctx)
		if n != 1 {
			t.Errorf("CountAll after panic = %d, want 1", n)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestStudentStore_ReturnedStudentsAreCopies(t *testing.T) {
	store := NewStudentStore()
	saved := repotest.MustSave(t, store, repotest.NewStudent("A", "A", "a@x.com", "CS", 1))
	saved.FirstName = "Mutated"

	_ = store.WithinReadOnlyTx(context.Background(), func(ctx context.Context, repo repositories.StudentRepository) error {
		got, _ := repo.FindByID(ctx, saved.ID)
		if got.FirstName != "A" {
			t.Errorf("stored student was mutated through a returned pointer: %q", got.FirstName)
		}
		return nil
	})
}

func TestStudentStore_ConcurrentWritersKeepEmailUnique(t *testing.T) {
	store := NewStudentStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.WithinTx(context.Background(), func(ctx context.Context, repo repositories.StudentRepository) error {
				_, err := repo.Save(ctx, repotest.NewStudent("A", "A", "same@x.com", "CS", 1))
				return err
			})
		}()
	}
	wg.Wait()

	_ = store.WithinReadOnlyTx(context.Background(), func(ctx context.Context, repo repositories.StudentRepository) error {
		n, _ := repo.CountAll(ctx)
		if n != 1 {
			t.Errorf("CountAll = %d, want 1", n)
		}
		return nil
	})
}
