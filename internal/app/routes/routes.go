package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/app/controllers"
	"github.com/yigit/studentrecords/internal/middleware"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, studentController *controllers.StudentController) {
	api := router.Group("/api")

	// Static segments are matched before /:id
	students := api.Group("/students")
	{
		students.POST("", studentController.CreateStudent)
		students.GET("", studentController.GetAllStudents)
		students.GET("/stats", studentController.GetDashboardStats)
		students.GET("/search", studentController.SearchStudents)
		students.GET("/status/:status", studentController.GetStudentsByStatus)
		students.GET("/course/:course", studentController.GetStudentsByCourse)
		students.GET("/year/:year", studentController.GetStudentsByYear)
		students.GET("/:id", studentController.GetStudentByID)
		students.PUT("/:id", studentController.UpdateStudent)
		students.DELETE("/:id", studentController.DeleteStudent)
	}

	router.NoRoute(func(c *gin.Context) {
		middleware.HandleAPIError(c, apperrors.NewResourceNotFoundError("Route not found: "+c.Request.URL.Path))
	})
}
