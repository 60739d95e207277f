package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/middleware"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// StudentController handles student record operations
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// bindStudentRequest binds and validates the request body, writing the error response on failure
func bindStudentRequest(ctx *gin.Context) (*dto.StudentRequest, bool) {
	var req dto.StudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return nil, false
	}
	return &req, true
}

func parseStudentID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Student ID must be a valid number"))
		return 0, false
	}
	return id, true
}

// CreateStudent handles student registration
// @Summary Create a new student
// @Description Registers a new student. Status is set to Active and the enrollment date to today.
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.StudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=dto.StudentResponse} "Student created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	req, ok := bindStudentRequest(ctx)
	if !ok {
		return
	}
	input, err := req.ToInput()
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("dateOfBirth must be a date in YYYY-MM-DD format"))
		return
	}

	student, err := c.studentService.CreateStudent(ctx, input)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewStudentResponse(student), "Student created successfully"))
}

// UpdateStudent updates an existing student
// @Summary Update a student
// @Description Overwrites the editable fields of a student. Omitting status keeps the current one.
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param request body dto.StudentRequest true "Updated student information"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse} "Student updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := parseStudentID(ctx)
	if !ok {
		return
	}
	req, ok := bindStudentRequest(ctx)
	if !ok {
		return
	}
	input, err := req.ToInput()
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("dateOfBirth must be a date in YYYY-MM-DD format"))
		return
	}

	student, err := c.studentService.UpdateStudent(ctx, id, input)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewStudentResponse(student), "Student updated successfully"))
}

// DeleteStudent removes a student
// @Summary Delete a student
// @Description Permanently removes a student record
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse "Student deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := parseStudentID(ctx)
	if !ok {
		return
	}

	if err := c.studentService.DeleteStudent(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Student deleted successfully"))
}

// GetStudentByID retrieves a student by ID
// @Summary Get student by ID
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [get]
func (c *StudentController) GetStudentByID(ctx *gin.Context) {
	id, ok := parseStudentID(ctx)
	if !ok {
		return
	}

	student, err := c.studentService.GetStudentByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewStudentResponse(student), ""))
}

// GetAllStudents lists every student
// @Summary List students
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse}
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) GetAllStudents(ctx *gin.Context) {
	students, err := c.studentService.GetAllStudents(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewStudentListResponse(students), ""))
}

// SearchStudents finds students by keyword
// @Summary Search students
// @Description Case-insensitive substring match on first name, last name, email, course and phone
// @Tags students
// @Produce json
// @Param keyword query string true "Search keyword"
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing keyword"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/search [get]
func (c *StudentController) SearchStudents(ctx *gin.Context) {
	keyword, present := ctx.GetQuery("keyword")
	if !present {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Query parameter 'keyword' is required"))
		return
	}

	students, err := c.studentService.SearchStudents(ctx, keyword)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewStudentListResponse(students), ""))
}

// GetStudentsByStatus lists students with a status
// @Summary List students by status
// @Tags students
// @Produce json
// @Param status path string true "Status, matched exactly"
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse}
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/status/{status} [get]
func (c *StudentController) GetStudentsByStatus(ctx *gin.Context) {
	students, err := c.studentService.GetStudentsByStatus(ctx, ctx.Param("status"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewStudentListResponse(students), ""))
}

// GetStudentsByCourse lists students in a course
// @Summary List students by course
// @Tags students
// @Produce json
// @Param course path string true "Course, matched exactly"
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse}
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/course/{course} [get]
func (c *StudentController) GetStudentsByCourse(ctx *gin.Context) {
	students, err := c.studentService.GetStudentsByCourse(ctx, ctx.Param("course"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewStudentListResponse(students), ""))
}

// GetStudentsByYear lists students in an academic year
// @Summary List students by year
// @Tags students
// @Produce json
// @Param year path int true "Academic year"
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid year"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/year/{year} [get]
func (c *StudentController) GetStudentsByYear(ctx *gin.Context) {
	year, err := strconv.Atoi(ctx.Param("year"))
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Year must be a valid number"))
		return
	}

	students, err := c.studentService.GetStudentsByYear(ctx, year)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewStudentListResponse(students), ""))
}

// GetDashboardStats returns student totals and the course distribution
// @Summary Dashboard statistics
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.DashboardStatsResponse}
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/stats [get]
func (c *StudentController) GetDashboardStats(ctx *gin.Context) {
	stats, err := c.studentService.GetDashboardStats(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewDashboardStatsResponse(stats), ""))
}
