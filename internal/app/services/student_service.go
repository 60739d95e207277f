package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
)

// StudentService defines the interface for student record operations
type StudentService interface {
	CreateStudent(ctx context.Context, input *models.StudentInput) (*models.Student, error)
	UpdateStudent(ctx context.Context, id int64, input *models.StudentInput) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	GetAllStudents(ctx context.Context) ([]*models.Student, error)
	SearchStudents(ctx context.Context, keyword string) ([]*models.Student, error)
	GetStudentsByStatus(ctx context.Context, status string) ([]*models.Student, error)
	GetStudentsByCourse(ctx context.Context, course string) ([]*models.Student, error)
	GetStudentsByYear(ctx context.Context, year int) ([]*models.Student, error)
	GetDashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	store  repositories.StudentStore
	logger zerolog.Logger
	now    func() time.Time
}

// NewStudentService creates a new student service instance
func NewStudentService(store repositories.StudentStore, lgr zerolog.Logger) StudentService {
	return &studentServiceImpl{
		store:  store,
		logger: lgr.With().Str("component", "student_service").Logger(),
		now:    time.Now,
	}
}

func studentNotFound(id int64) error {
	return apperrors.NewCustomError(apperrors.ErrStudentNotFound, fmt.Sprintf("Student not found with ID: %d", id))
}

func duplicateEmail(email string) error {
	return apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, fmt.Sprintf("Student with email %s already exists", email))
}

// translateRepoError maps repository sentinels onto application errors
func translateRepoError(err error, id int64, email string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return studentNotFound(id)
	case errors.Is(err, repositories.ErrDuplicateEmail):
		return duplicateEmail(email)
	default:
		return err
	}
}

func requireInput(input *models.StudentInput) error {
	if input == nil {
		return fmt.Errorf("%w: student input is nil", apperrors.ErrValidationFailed)
	}
	return nil
}

// CreateStudent registers a new student. Status is always "Active" and the
// enrollment date is today, whatever the input says.
func (s *studentServiceImpl) CreateStudent(ctx context.Context, input *models.StudentInput) (*models.Student, error) {
	if err := requireInput(input); err != nil {
		return nil, err
	}

	var created *models.Student
	err := s.store.WithinTx(ctx, func(ctx context.Context, repo repositories.StudentRepository) error {
		exists, err := repo.ExistsByEmail(ctx, input.Email)
		if err != nil {
			return fmt.Errorf("error checking student email: %w", err)
		}
		if exists {
			return duplicateEmail(input.Email)
		}

		student := &models.Student{
			EnrollmentDate: helpers.TruncateToDate(s.now()),
			Status:         models.StatusActive,
		}
		input.ApplyTo(student)

		created, err = repo.Save(ctx, student)
		if err != nil {
			return translateRepoError(err, 0, input.Email)
		}
		return nil
	})
	if err != nil {
		return nil, s.wrap(err, "error creating student")
	}

	s.logger.Info().Int64("studentID", created.ID).Str("email", created.Email).Msg("Student created")
	return created, nil
}

// UpdateStudent overwrites the editable fields of an existing student.
// A nil input status keeps the current one; the enrollment date never changes.
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id int64, input *models.StudentInput) (*models.Student, error) {
	if err := requireInput(input); err != nil {
		return nil, err
	}

	var updated *models.Student
	err := s.store.WithinTx(ctx, func(ctx context.Context, repo repositories.StudentRepository) error {
		existing, err := repo.FindByID(ctx, id)
		if err != nil {
			return translateRepoError(err, id, input.Email)
		}

		taken, err := repo.ExistsByEmailExcludingID(ctx, input.Email, id)
		if err != nil {
			return fmt.Errorf("error checking student email: %w", err)
		}
		if taken {
			return duplicateEmail(input.Email)
		}

		input.ApplyTo(existing)
		if input.Status != nil {
			existing.Status = *input.Status
		}

		updated, err = repo.Save(ctx, existing)
		if err != nil {
			return translateRepoError(err, id, input.Email)
		}
		return nil
	})
	if err != nil {
		return nil, s.wrap(err, "error updating student")
	}

	s.logger.Info().Int64("studentID", id).Msg("Student updated")
	return updated, nil
}

// DeleteStudent permanently removes a student
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) error {
	err := s.store.WithinTx(ctx, func(ctx context.Context, repo repositories.StudentRepository) error {
		student, err := repo.FindByID(ctx, id)
		if err != nil {
			return translateRepoError(err, id, "")
		}
		if err := repo.Delete(ctx, student); err != nil {
			return translateRepoError(err, id, "")
		}
		return nil
	})
	if err != nil {
		return s.wrap(err, "error deleting student")
	}

	s.logger.Info().Int64("studentID", id).Msg("Student deleted")
	return nil
}

// GetStudentByID retrieves a student by ID
func (s *studentServiceImpl) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	var student *models.Student
	err := s.store.WithinReadOnlyTx(ctx, func(ctx context.Context, repo repositories.StudentRepository) error {
		var err error
		student, err = repo.FindByID(ctx, id)
		if err != nil {
			return translateRepoError(err, id, "")
		}
		return nil
	})
	if err != nil {
		return nil, s.wrap(err, "error retrieving student")
	}
	return student, nil
}

// list runs a single read query inside a read-only unit of work
func (s *studentServiceImpl) list(ctx context.Context, what string, query func(ctx context.Context, repo repositories.StudentRepository) ([]*models.Student, error)) ([]*models.Student, error) {
	var students []*models.Student
	err := s.store.WithinReadOnlyTx(ctx, func(ctx context.Context, repo repositories.StudentRepository) error {
		var err error
		students, err = query(ctx, repo)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error retrieving %s: %w", what, err)
	}
	return students, nil
}

// GetAllStudents retrieves every student
func (s *studentServiceImpl) GetAllStudents(ctx context.Context) ([]*models.Student, error) {
	return s.list(ctx, "students", func(ctx context.Context, repo repositories.StudentRepository) ([]*models.Student, error) {
		return repo.FindAll(ctx)
	})
}

// SearchStudents matches keyword against names, email, course and phone.
// An empty keyword is a substring of everything and so returns all students.
func (s *studentServiceImpl) SearchStudents(ctx context.Context, keyword string) ([]*models.Student, error) {
	return s.list(ctx, "search results", func(ctx context.Context, repo repositories.StudentRepository) ([]*models.Student, error) {
		return repo.Search(ctx, keyword)
	})
}

// GetStudentsByStatus retrieves students whose status equals status
func (s *studentServiceImpl) GetStudentsByStatus(ctx context.Context, status string) ([]*models.Student, error) {
	return s.list(ctx, "students by status", func(ctx context.Context, repo repositories.StudentRepository) ([]*models.Student, error) {
		return repo.FindByStatus(ctx, status)
	})
}

// GetStudentsByCourse retrieves students enrolled in course
func (s *studentServiceImpl) GetStudentsByCourse(ctx context.Context, course string) ([]*models.Student, error) {
	return s.list(ctx, "students by course", func(ctx context.Context, repo repositories.StudentRepository) ([]*models.Student, error) {
		return repo.FindByCourse(ctx, course)
	})
}

// GetStudentsByYear retrieves students in academic year
func (s *studentServiceImpl) GetStudentsByYear(ctx context.Context, year int) ([]*models.Student, error) {
	return s.list(ctx, "students by year", func(ctx context.Context, repo repositories.StudentRepository) ([]*models.Student, error) {
		return repo.FindByYear(ctx, year)
	})
}

// GetDashboardStats computes totals and the course distribution from one snapshot
func (s *studentServiceImpl) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var stats *models.DashboardStats
	err := s.store.WithinReadOnlyTx(ctx, func(ctx context.Context, repo repositories.StudentRepository) error {
		total, err := repo.CountAll(ctx)
		if err != nil {
			return err
		}
		active, err := repo.CountByStatus(ctx, models.StatusActive)
		if err != nil {
			return err
		}
		distribution, err := repo.CountGroupedByCourse(ctx)
		if err != nil {
			return err
		}
		stats = models.NewDashboardStats(total, active, distribution)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error computing dashboard stats: %w", err)
	}
	return stats, nil
}

// wrap passes domain errors through untouched and adds context to infrastructure ones
func (s *studentServiceImpl) wrap(err error, msg string) error {
	if apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrResourceAlreadyExists, apperrors.ErrValidationFailed) {
		return err
	}
	s.logger.Error().Err(err).Msg(msg)
	return fmt.Errorf("%s: %w", msg, err)
}
