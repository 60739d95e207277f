package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/dberrors"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

const (
	studentsTable = "students"
	// studentsEmailKey is the unique constraint backing email uniqueness
	studentsEmailKey = "students_email_key"
)

var studentColumns = []string{
	"id", "first_name", "last_name", "email", "phone", "date_of_birth",
	"gender", "address", "course", "year", "enrollment_date", "status",
}

// searchColumns are matched by Search
var searchColumns = []string{"first_name", "last_name", "email", "course", "phone"}

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStudentRepository handles student database operations
type PostgresStudentRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewPostgresStudentRepository creates a new PostgresStudentRepository
func NewPostgresStudentRepository(db DBTX) *PostgresStudentRepository {
	return &PostgresStudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var _ StudentRepository = (*PostgresStudentRepository)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (*models.Student, error) {
	s := &models.Student{}
	err := row.Scan(
		&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.Phone, &s.DateOfBirth,
		&s.Gender, &s.Address, &s.Course, &s.Year, &s.EnrollmentDate, &s.Status,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// findOne returns the single student matching pred
func (r *PostgresStudentRepository) findOne(ctx context.Context, pred squirrel.Sqlizer) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From(studentsTable).
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building find student SQL")
		return nil, fmt.Errorf("failed to build find student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msg("Error scanning student row")
		return nil, fmt.Errorf("error finding student: %w", err)
	}
	return student, nil
}

// findMany returns every student matching pred ordered by id; a nil pred matches all
func (r *PostgresStudentRepository) findMany(ctx context.Context, pred squirrel.Sqlizer) ([]*models.Student, error) {
	query := r.sb.Select(studentColumns...).From(studentsTable).OrderBy("id ASC")
	if pred != nil {
		query = query.Where(pred)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row during list")
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating student rows")
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// exists reports whether any student matches pred
func (r *PostgresStudentRepository) exists(ctx context.Context, pred squirrel.Sqlizer) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From(studentsTable).
		Where(pred).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building student exists SQL")
		return false, fmt.Errorf("failed to build student existence query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Msg("Error checking student existence")
		return false, fmt.Errorf("error checking student existence: %w", err)
	}
	return exists, nil
}

// count returns the number of students matching pred; a nil pred counts all
func (r *PostgresStudentRepository) count(ctx context.Context, pred squirrel.Sqlizer) (int64, error) {
	query := r.sb.Select("COUNT(*)").From(studentsTable)
	if pred != nil {
		query = query.Where(pred)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count students SQL")
		return 0, fmt.Errorf("failed to build count students query: %w", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		logger.Error().Err(err).Msg("Error counting students")
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return n, nil
}

// FindByID retrieves a student by ID
func (r *PostgresStudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id})
}

// FindByEmail retrieves a student by exact email
func (r *PostgresStudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	return r.findOne(ctx, squirrel.Eq{"email": email})
}

// ExistsByEmail checks whether any student uses email
func (r *PostgresStudentRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"email": email})
}

// ExistsByEmailExcludingID checks whether a student other than id uses email
func (r *PostgresStudentRepository) ExistsByEmailExcludingID(ctx context.Context, email string, id int64) (bool, error) {
	return r.exists(ctx, squirrel.And{squirrel.Eq{"email": email}, squirrel.NotEq{"id": id}})
}

// FindAll retrieves all students
func (r *PostgresStudentRepository) FindAll(ctx context.Context) ([]*models.Student, error) {
	return r.findMany(ctx, nil)
}

// FindByStatus retrieves students with exactly this status
func (r *PostgresStudentRepository) FindByStatus(ctx context.Context, status string) ([]*models.Student, error) {
	return r.findMany(ctx, squirrel.Eq{"status": status})
}

// FindByCourse retrieves students enrolled in exactly this course
func (r *PostgresStudentRepository) FindByCourse(ctx context.Context, course string) ([]*models.Student, error) {
	return r.findMany(ctx, squirrel.Eq{"course": course})
}

// FindByYear retrieves students in this academic year
func (r *PostgresStudentRepository) FindByYear(ctx context.Context, year int) ([]*models.Student, error) {
	return r.findMany(ctx, squirrel.Eq{"year": year})
}

// Search retrieves students whose searchable columns contain keyword, ignoring case
func (r *PostgresStudentRepository) Search(ctx context.Context, keyword string) ([]*models.Student, error) {
	pattern := helpers.ContainsPattern(keyword)

	or := squirrel.Or{}
	for _, column := range searchColumns {
		or = append(or, squirrel.ILike{column: pattern})
	}
	return r.findMany(ctx, or)
}

// CountAll counts every student
func (r *PostgresStudentRepository) CountAll(ctx context.Context) (int64, error) {
	return r.count(ctx, nil)
}

// CountByStatus counts students with exactly this status
func (r *PostgresStudentRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	return r.count(ctx, squirrel.Eq{"status": status})
}

// CountGroupedByCourse counts students per course
func (r *PostgresStudentRepository) CountGroupedByCourse(ctx context.Context) (map[string]int64, error) {
	sql, args, err := r.sb.Select("course", "COUNT(*)").
		From(studentsTable).
		GroupBy("course").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building course distribution SQL")
		return nil, fmt.Errorf("failed to build course distribution query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing course distribution query")
		return nil, fmt.Errorf("error querying course distribution: %w", err)
	}
	defer rows.Close()

	distribution := map[string]int64{}
	for rows.Next() {
		var (
			course string
			n      int64
		)
		if err := rows.Scan(&course, &n); err != nil {
			return nil, fmt.Errorf("error scanning course distribution row: %w", err)
		}
		distribution[course] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course distribution rows: %w", err)
	}

	return distribution, nil
}

// Save inserts a new student or overwrites an existing one
func (r *PostgresStudentRepository) Save(ctx context.Context, s *models.Student) (*models.Student, error) {
	if s.ID == 0 {
		return r.insert(ctx, s)
	}
	return r.update(ctx, s)
}

func (r *PostgresStudentRepository) insert(ctx context.Context, s *models.Student) (*models.Student, error) {
	sql, args, err := r.sb.Insert(studentsTable).
		Columns("first_name", "last_name", "email", "phone", "date_of_birth",
			"gender", "address", "course", "year", "enrollment_date", "status").
		Values(s.FirstName, s.LastName, s.Email, s.Phone, s.DateOfBirth,
			s.Gender, s.Address, s.Course, s.Year, s.EnrollmentDate, s.Status).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return nil, fmt.Errorf("failed to build create student query: %w", err)
	}

	saved := s.Clone()
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&saved.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, studentsEmailKey) {
			logger.Warn().Str("email", s.Email).Msg("Attempted to create student with duplicate email")
			return nil, ErrDuplicateEmail
		}
		logger.Error().Err(err).Str("email", s.Email).Msg("Error executing create student query")
		return nil, fmt.Errorf("error creating student: %w", err)
	}

	return saved, nil
}

func (r *PostgresStudentRepository) update(ctx context.Context, s *models.Student) (*models.Student, error) {
	sql, args, err := r.sb.Update(studentsTable).
		SetMap(map[string]interface{}{
			"first_name":      s.FirstName,
			"last_name":       s.LastName,
			"email":           s.Email,
			"phone":           s.Phone,
			"date_of_birth":   s.DateOfBirth,
			"gender":          s.Gender,
			"address":         s.Address,
			"course":          s.Course,
			"year":            s.Year,
			"enrollment_date": s.EnrollmentDate,
			"status":          s.Status,
		}).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update student SQL")
		return nil, fmt.Errorf("failed to build update student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, studentsEmailKey) {
			logger.Warn().Int64("studentID", s.ID).Str("email", s.Email).Msg("Attempted to update student to a duplicate email")
			return nil, ErrDuplicateEmail
		}
		logger.Error().Err(err).Int64("studentID", s.ID).Msg("Error executing update student query")
		return nil, fmt.Errorf("error updating student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	return s.Clone(), nil
}

// Delete removes a student permanently
func (r *PostgresStudentRepository) Delete(ctx context.Context, s *models.Student) error {
	sql, args, err := r.sb.Delete(studentsTable).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete student SQL")
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", s.ID).Msg("Error executing delete student query")
		return fmt.Errorf("error deleting student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
