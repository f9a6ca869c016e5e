package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/iams/internal/app/auth"
	"github.com/yigit/iams/internal/app/controllers"
	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/models/dto"
	"github.com/yigit/iams/internal/middleware"
	"github.com/yigit/iams/internal/pkg/logger"
)

// Role groups shared by several route sets
var (
	staff      = []models.RoleName{models.RoleSuperAdmin, models.RoleAdmin}
	admissions = []models.RoleName{models.RoleSuperAdmin, models.RoleAdmin, models.RoleAdmissionOfficer}
	teaching   = []models.RoleName{models.RoleSuperAdmin, models.RoleAdmin, models.RoleFaculty}
	examiners  = []models.RoleName{models.RoleSuperAdmin, models.RoleAdmin, models.RoleFaculty, models.RoleExamCell}
	examReader = append(append([]models.RoleName{}, examiners...), models.RoleStudent)
)

// Controllers bundles every HTTP handler set
type Controllers struct {
	Auth        *controllers.AuthController
	Catalog     *controllers.CatalogController
	People      *controllers.PeopleController
	Enrollments *controllers.EnrollmentController
	Attendance  *controllers.AttendanceController
	Exams       *controllers.ExamController
	Admissions  *controllers.AdmissionController
	Dashboards  *controllers.DashboardController
}

// Pinger reports whether the store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, gate *auth.Gate, store Pinger) {
	authenticated := middleware.Authorize(gate)
	only := func(roles ...models.RoleName) gin.HandlerFunc {
		return middleware.Authorize(gate, roles...)
	}

	router.GET("/ping", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "pong"})
	})

	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/health", func(ctx *gin.Context) {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			logger.Error().Err(err).Msg("Health check failed")
			ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Message: "Database unavailable"})
			return
		}
		ctx.JSON(http.StatusOK, dto.ItemResponse{Item: gin.H{"status": "ok"}})
	})

	// --- Auth ---
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/signup", c.Auth.Signup)
		authGroup.POST("/login", c.Auth.Login)
		authGroup.POST("/logout", authenticated, c.Auth.Logout)
	}

	// --- Dashboards ---
	me := v1.Group("/me")
	{
		me.GET("", authenticated, c.Auth.Me)
		me.GET("/student", only(models.RoleStudent), c.Dashboards.Student)
		me.GET("/student/exams", only(models.RoleStudent), c.Dashboards.StudentExams)
		me.GET("/student/attendance", only(models.RoleStudent), c.Dashboards.StudentAttendance)
		me.GET("/faculty", only(models.RoleFaculty), c.Dashboards.Faculty)
		me.GET("/admin", only(staff...), c.Dashboards.Admin)
	}
	v1.GET("/analytics/overview", only(staff...), c.Dashboards.Analytics)
	v1.GET("/audit-logs", only(models.RoleSuperAdmin), c.Dashboards.AuditLogs)

	// --- Admissions ---
	admissionGroup := v1.Group("/admissions")
	{
		admissionGroup.POST("", c.Admissions.Submit)

		reviewed := admissionGroup.Group("", only(admissions...))
		reviewed.GET("", c.Admissions.List)
		reviewed.GET("/:id", c.Admissions.Get)
		reviewed.PATCH("/:id", c.Admissions.Update)
		reviewed.POST("/:id/create-student", c.Admissions.CreateStudent)
	}

	// --- Enrollments ---
	enrollments := v1.Group("/enrollments")
	{
		enrollments.GET("/by-offering", only(teaching...), c.Enrollments.ListByOffering)

		own := enrollments.Group("", only(models.RoleStudent))
		own.GET("", c.Enrollments.ListMine)
		own.POST("", c.Enrollments.Register)
		own.DELETE("/:id", c.Enrollments.Drop)
	}

	// --- Attendance ---
	sessions := v1.Group("/attendance-sessions", only(teaching...))
	{
		sessions.GET("", c.Attendance.ListSessions)
		sessions.POST("", c.Attendance.StartSession)
	}
	records := v1.Group("/attendance-records", only(teaching...))
	{
		records.GET("", c.Attendance.ListRecords)
		records.POST("", c.Attendance.UpsertRecords)
	}

	// --- Exams ---
	exams := v1.Group("/exams")
	{
		exams.GET("", only(examReader...), c.Exams.List)
		exams.GET("/:id", only(examReader...), c.Exams.Get)
		exams.POST("", only(examiners...), c.Exams.Create)
		exams.PATCH("/:id", only(examiners...), c.Exams.Update)
		exams.DELETE("/:id", only(examiners...), c.Exams.Delete)
	}
	results := v1.Group("/exam-results")
	{
		results.GET("", only(examReader...), c.Exams.ListResults)
		results.POST("", only(examiners...), c.Exams.UpsertResults)
	}

	// --- Catalog ---
	departments := v1.Group("/departments")
	{
		departments.GET("", authenticated, c.Catalog.ListDepartments)
		departments.GET("/:id", authenticated, c.Catalog.GetDepartment)
		departments.POST("", only(staff...), c.Catalog.CreateDepartment)
		departments.PATCH("/:id", only(staff...), c.Catalog.UpdateDepartment)
		departments.DELETE("/:id", only(staff...), c.Catalog.DeleteDepartment)
	}

	// Programs are readable without a token so the admission form can list them
	programs := v1.Group("/programs")
	{
		programs.GET("", c.Catalog.ListPrograms)
		programs.GET("/:id", c.Catalog.GetProgram)
		programs.POST("", only(staff...), c.Catalog.CreateProgram)
		programs.PATCH("/:id", only(staff...), c.Catalog.UpdateProgram)
		programs.DELETE("/:id", only(staff...), c.Catalog.DeleteProgram)
	}

	semesters := v1.Group("/semesters")
	{
		semesters.GET("", authenticated, c.Catalog.ListSemesters)
		semesters.POST("", only(staff...), c.Catalog.CreateSemester)
		semesters.PATCH("/:id", only(staff...), c.Catalog.UpdateSemester)
		semesters.DELETE("/:id", only(staff...), c.Catalog.DeleteSemester)
	}

	courses := v1.Group("/courses")
	{
		courses.GET("", authenticated, c.Catalog.ListCourses)
		courses.POST("", only(staff...), c.Catalog.CreateCourse)
		courses.PATCH("/:id", only(staff...), c.Catalog.UpdateCourse)
		courses.DELETE("/:id", only(staff...), c.Catalog.DeleteCourse)
	}

	offerings := v1.Group("/course-offerings")
	{
		offerings.GET("", authenticated, c.Catalog.ListOfferings)
		offerings.GET("/:id", authenticated, c.Catalog.GetOffering)
		offerings.POST("", only(staff...), c.Catalog.CreateOffering)
		offerings.PATCH("/:id", only(staff...), c.Catalog.UpdateOffering)
		offerings.DELETE("/:id", only(staff...), c.Catalog.DeleteOffering)
	}

	// --- People ---
	students := v1.Group("/students", only(staff...))
	{
		students.GET("", c.People.ListStudents)
		students.GET("/:id", c.People.GetStudent)
		students.POST("", c.People.CreateStudent)
	}
	faculty := v1.Group("/faculty", only(staff...))
	{
		faculty.GET("", c.People.ListFaculty)
		faculty.POST("", c.People.CreateFaculty)
	}
}
