package models

import "time"

// StatusActive is the status assigned to every newly created student
const StatusActive = "Active"

// Student defines the student model based on the 'students' table
type Student struct {
	ID             int64     `json:"id" db:"id"` // System assigned, never reused
	FirstName      string    `json:"firstName" db:"first_name"`
	LastName       string    `json:"lastName" db:"last_name"`
	Email          string    `json:"email" db:"email"` // Unique across all students
	Phone          string    `json:"phone" db:"phone"`
	DateOfBirth    time.Time `json:"dateOfBirth" db:"date_of_birth"`
	Gender         string    `json:"gender" db:"gender"`
	Address        string    `json:"address" db:"address"`
	Course         string    `json:"course" db:"course"`
	Year           int       `json:"year" db:"year"`
	EnrollmentDate time.Time `json:"enrollmentDate" db:"enrollment_date"` // Set once at creation
	Status         string    `json:"status" db:"status"`
}

// StudentInput carries the client editable fields of a student.
// Status is nil when the client did not supply one.
type StudentInput struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	DateOfBirth time.Time
	Gender      string
	Address     string
	Course      string
	Year        int
	Status      *string
}

// ApplyTo overwrites the editable personal and academic fields of s.
// Status, ID and EnrollmentDate are left untouched.
func (in *StudentInput) ApplyTo(s *Student) {
	s.FirstName = in.FirstName
	s.LastName = in.LastName
	s.Email = in.Email
	s.Phone = in.Phone
	s.DateOfBirth = in.DateOfBirth
	s.Gender = in.Gender
	s.Address = in.Address
	s.Course = in.Course
	s.Year = in.Year
}

// IsActive reports whether the student's status is exactly "Active"
func (s *Student) IsActive() bool {
	return s.Status == StatusActive
}

// Clone returns a copy of s that shares no state with it
func (s *Student) Clone() *Student {
	c := *s
	return &c
}

// DashboardStats summarizes the student population
type DashboardStats struct {
	TotalStudents      int64            `json:"totalStudents"`
	ActiveStudents     int64            `json:"activeStudents"`
	InactiveStudents   int64            `json:"inactiveStudents"`
	CourseDistribution map[string]int64 `json:"courseDistribution"`
}

// NewDashboardStats builds the stats, deriving the inactive count from total and active
func NewDashboardStats(total, active int64, courseDistribution map[string]int64) *DashboardStats {
	if courseDistribution == nil {
		courseDistribution = map[string]int64{}
	}
	return &DashboardStats{
		TotalStudents:      total,
		ActiveStudents:     active,
		InactiveStudents:   total - active,
		CourseDistribution: courseDistribution,
	}
}
