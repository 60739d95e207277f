package seed

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
)

type sampleStudent struct {
	firstName, lastName, email, phone string
	dateOfBirth                       string
	gender, address, course           string
	year                              int
}

var sampleStudents = []sampleStudent{
	{"John", "Doe", "john.doe@example.com", "9876543210", "2002-05-15", "Male", "123 Main St, New York, NY", "Computer Science", 2},
	{"Jane", "Smith", "jane.smith@example.com", "9876543211", "2001-08-22", "Female", "456 Oak Ave, Los Angeles, CA", "Electrical Engineering", 3},
	{"Michael", "Johnson", "michael.j@example.com", "9876543212", "2003-03-10", "Male", "789 Pine Rd, Chicago, IL", "Mechanical Engineering", 1},
	{"Emily", "Williams", "emily.w@example.com", "9876543213", "2002-11-05", "Female", "321 Elm St, Houston, TX", "Computer Science", 2},
	{"David", "Brown", "david.brown@example.com", "9876543214", "2001-07-18", "Male", "654 Maple Dr, Phoenix, AZ", "Civil Engineering", 3},
	{"Sarah", "Davis", "sarah.davis@example.com", "9876543215", "2003-01-25", "Female", "987 Cedar Ln, Philadelphia, PA", "Information Technology", 1},
	{"James", "Miller", "james.miller@example.com", "9876543216", "2002-09-12", "Male", "147 Birch St, San Antonio, TX", "Computer Science", 2},
	{"Jessica", "Wilson", "jessica.w@example.com", "9876543217", "2001-04-30", "Female", "258 Willow Ave, San Diego, CA", "Electronics Engineering", 4},
	{"Robert", "Moore", "robert.moore@example.com", "9876543218", "2003-06-08", "Male", "369 Spruce Rd, Dallas, TX", "Mechanical Engineering", 1},
	{"Jennifer", "Taylor", "jennifer.t@example.com", "9876543219", "2002-12-20", "Female", "741 Ash Dr, San Jose, CA", "Computer Science", 2},
}

// CreateDefaultData inserts the sample students when the store is empty.
// A non-empty store is left untouched.
func CreateDefaultData(ctx context.Context, store repositories.StudentStore, lgr zerolog.Logger) error {
	return createDefaultData(ctx, store, lgr, time.Now())
}

func createDefaultData(ctx context.Context, store repositories.StudentStore, lgr zerolog.Logger, now time.Time) error {
	lgr.Info().Msg("Checking/Creating sample student data...")
	today := helpers.TruncateToDate(now)

	inserted := 0
	err := store.WithinTx(ctx, func(ctx context.Context, repo repositories.StudentRepository) error {
		count, err := repo.CountAll(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		for _, sample := range sampleStudents {
			// Another instance may be seeding at the same time
			if _, err := repo.FindByEmail(ctx, sample.email); err == nil {
				lgr.Debug().Str("email", sample.email).Msg("Sample student already present, skipping")
				continue
			} else if !errors.Is(err, repositories.ErrNotFound) {
				return err
			}

			student, err := sample.toModel(today)
			if err != nil {
				return err
			}
			if _, err := repo.Save(ctx, student); err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating sample students")
		return err
	}

	if inserted == 0 {
		lgr.Info().Msg("Students already exist, sample data not needed")
		return nil
	}
	lgr.Info().Int("count", inserted).Msg("Sample data initialized successfully")
	return nil
}

func (s sampleStudent) toModel(today time.Time) (*models.Student, error) {
	dob, err := helpers.ParseDate(s.dateOfBirth)
	if err != nil {
		return nil, err
	}
	return &models.Student{
		FirstName:      s.firstName,
		LastName:       s.lastName,
		Email:          s.email,
		Phone:          s.phone,
		DateOfBirth:    dob,
		Gender:         s.gender,
		Address:        s.address,
		Course:         s.course,
		Year:           s.year,
		EnrollmentDate: today.AddDate(-(s.year - 1), 0, 0),
		Status:         models.StatusActive,
	}, nil
}
