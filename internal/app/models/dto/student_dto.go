package dto

import (
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
)

// StudentRequest is the body of create and update requests.
// Length limits follow the students table columns. Status is ignored on create.
type StudentRequest struct {
	FirstName   string  `json:"firstName" binding:"required,personname" example:"John"`
	LastName    string  `json:"lastName" binding:"required,personname" example:"Doe"`
	Email       string  `json:"email" binding:"required,max=254,email" example:"john.doe@example.com"`
	Phone       string  `json:"phone" binding:"required,phone" example:"9876543210"`
	DateOfBirth string  `json:"dateOfBirth" binding:"required,datetime=2006-01-02" example:"2002-05-15"`
	Gender      string  `json:"gender" binding:"required,max=20" example:"Male"`
	Address     string  `json:"address" binding:"required" example:"123 Main St, New York"`
	Course      string  `json:"course" binding:"required,max=100" example:"Computer Science"`
	Year        int     `json:"year" binding:"required,min=1" example:"2"`
	Status      *string `json:"status,omitempty" binding:"omitempty,max=50" example:"Active"`
}

// ToInput converts the request into service input. The date has already been
// checked by the binding layer, so a parse failure is still reported.
func (r *StudentRequest) ToInput() (*models.StudentInput, error) {
	dob, err := helpers.ParseDate(r.DateOfBirth)
	if err != nil {
		return nil, err
	}
	return &models.StudentInput{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		Phone:       r.Phone,
		DateOfBirth: dob,
		Gender:      r.Gender,
		Address:     r.Address,
		Course:      r.Course,
		Year:        r.Year,
		Status:      r.Status,
	}, nil
}

// StudentResponse is the API representation of a student, dates as YYYY-MM-DD
type StudentResponse struct {
	ID             int64  `json:"id" example:"1"`
	FirstName      string `json:"firstName" example:"John"`
	LastName       string `json:"lastName" example:"Doe"`
	Email          string `json:"email" example:"john.doe@example.com"`
	Phone          string `json:"phone" example:"9876543210"`
	DateOfBirth    string `json:"dateOfBirth" example:"2002-05-15"`
	Gender         string `json:"gender" example:"Male"`
	Address        string `json:"address" example:"123 Main St, New York"`
	Course         string `json:"course" example:"Computer Science"`
	Year           int    `json:"year" example:"2"`
	EnrollmentDate string `json:"enrollmentDate" example:"2026-10-15"`
	Status         string `json:"status" example:"Active"`
}

// NewStudentResponse converts a student model into its API representation
func NewStudentResponse(s *models.Student) *StudentResponse {
	if s == nil {
		return nil
	}
	return &StudentResponse{
		ID:             s.ID,
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		Email:          s.Email,
		Phone:          s.Phone,
		DateOfBirth:    helpers.FormatDate(s.DateOfBirth),
		Gender:         s.Gender,
		Address:        s.Address,
		Course:         s.Course,
		Year:           s.Year,
		EnrollmentDate: helpers.FormatDate(s.EnrollmentDate),
		Status:         s.Status,
	}
}

// NewStudentListResponse converts a list, always producing a JSON array
func NewStudentListResponse(students []*models.Student) []*StudentResponse {
	out := make([]*StudentResponse, 0, len(students))
	for _, s := range students {
		out = append(out, NewStudentResponse(s))
	}
	return out
}

// DashboardStatsResponse is the API representation of dashboard statistics
type DashboardStatsResponse struct {
	TotalStudents      int64            `json:"totalStudents" example:"10"`
	ActiveStudents     int64            `json:"activeStudents" example:"8"`
	InactiveStudents   int64            `json:"inactiveStudents" example:"2"`
	CourseDistribution map[string]int64 `json:"courseDistribution"`
}

// NewDashboardStatsResponse converts dashboard statistics
func NewDashboardStatsResponse(stats *models.DashboardStats) *DashboardStatsResponse {
	return &DashboardStatsResponse{
		TotalStudents:      stats.TotalStudents,
		ActiveStudents:     stats.ActiveStudents,
		InactiveStudents:   stats.InactiveStudents,
		CourseDistribution: stats.CourseDistribution,
	}
}
