package repositories

import (
	"context"
	"errors"

	"github.com/yigit/studentrecords/internal/app/models"
)

// Shared repository errors
var (
	// ErrNotFound is returned when a lookup by key matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when a write would break email uniqueness.
	ErrDuplicateEmail = errors.New("student with this email already exists")
)

// StudentRepository is the data access contract for students.
// Implementations carry no business rules.
type StudentRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// ExistsByEmailExcludingID is true iff a student other than id uses email.
	ExistsByEmailExcludingID(ctx context.Context, email string, id int64) (bool, error)

	FindAll(ctx context.Context) ([]*models.Student, error)
	FindByStatus(ctx context.Context, status string) ([]*models.Student, error)
	FindByCourse(ctx context.Context, course string) ([]*models.Student, error)
	FindByYear(ctx context.Context, year int) ([]*models.Student, error)
	// Search matches keyword case-insensitively as a substring of first name,
	// last name, email, course or phone.
	Search(ctx context.Context, keyword string) ([]*models.Student, error)

	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	// CountGroupedByCourse has one entry per course with at least one student.
	CountGroupedByCourse(ctx context.Context) (map[string]int64, error)

	// Save inserts s when s.ID is zero and fully overwrites the stored row otherwise.
	Save(ctx context.Context, s *models.Student) (*models.Student, error)
	Delete(ctx context.Context, s *models.Student) error
}

// TxFn is the body of a unit of work
type TxFn func(ctx context.Context, repo StudentRepository) error

// StudentStore hands out a StudentRepository bound to a single unit of work.
type StudentStore interface {
	// WithinTx runs fn in a read-write transaction; nothing fn wrote survives an error.
	WithinTx(ctx context.Context, fn TxFn) error
	// WithinReadOnlyTx runs fn against one consistent snapshot.
	WithinReadOnlyTx(ctx context.Context, fn TxFn) error
}
