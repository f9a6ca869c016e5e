package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/iams/internal/app/models/dto"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/app/services"
	"github.com/yigit/iams/internal/middleware"
)

// CatalogController serves departments, programs, semesters, courses and
// course offerings
type CatalogController struct {
	catalog *services.CatalogService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// --- Departments ---

// ListDepartments lists all departments
// @Summary List departments
// @Tags departments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ItemsResponse{items=[]models.Department}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /departments [get]
func (c *CatalogController) ListDepartments(ctx *gin.Context) {
	departments, err := c.catalog.ListDepartments(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	items(ctx, departments)
}

// GetDepartment retrieves a department by ID
// @Summary Get department
// @Tags departments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Department ID"
// @Success 200 {object} dto.ItemResponse{item=models.Department}
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Router /departments/{id} [get]
func (c *CatalogController) GetDepartment(ctx *gin.Context) {
	department, err := c.catalog.GetDepartment(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusOK, department)
}

// CreateDepartment handles department creation
// @Summary Create a new department
// @Tags departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateDepartmentRequest true "Department information"
// @Success 201 {object} dto.ItemResponse{item=models.Department} "Department created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 409 {object} dto.ErrorResponse "Department already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /departments [post]
func (c *CatalogController) CreateDepartment(ctx *gin.Context) {
	var req dto.CreateDepartmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	department, err := c.catalog.CreateDepartment(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusCreated, department)
}

// UpdateDepartment changes the fields present in the body
// @Summary Update department
// @Tags departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Department ID"
// @Param request body dto.UpdateDepartmentRequest true "Fields to change"
// @Success 200 {object} dto.ItemResponse{item=models.Department}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Failure 409 {object} dto.ErrorResponse "Code already in use"
// @Router /departments/{id} [patch]
func (c *CatalogController) UpdateDepartment(ctx *gin.Context) {
	var req dto.UpdateDepartmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	department, err := c.catalog.UpdateDepartment(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), ctx.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusOK, department)
}

// DeleteDepartment removes a department without programs
// @Summary Delete department
// @Tags departments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Department ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Failure 409 {object} dto.ErrorResponse "Department still has programs"
// @Router /departments/{id} [delete]
func (c *CatalogController) DeleteDepartment(ctx *gin.Context) {
	if err := c.catalog.DeleteDepartment(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Department deleted"})
}

// --- Programs ---

// ListPrograms lists programs, optionally of one department
// @Summary List programs
// @Tags programs
// @Produce json
// @Param departmentId query string false "Filter by department ID"
// @Success 200 {object} dto.ItemsResponse{items=[]models.Program}
// @Router /programs [get]
func (c *CatalogController) ListPrograms(ctx *gin.Context) {
	programs, err := c.catalog.ListPrograms(ctx.Request.Context(), ctx.Query("departmentId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	items(ctx, programs)
}

// GetProgram retrieves a program with its department
// @Summary Get program
// @Tags programs
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} dto.ItemResponse{item=models.Program}
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Router /programs/{id} [get]
func (c *CatalogController) GetProgram(ctx *gin.Context) {
	program, err := c.catalog.GetProgram(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusOK, program)
}

// CreateProgram handles program creation
// @Summary Create program
// @Tags programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProgramRequest true "Program information"
// @Success 201 {object} dto.ItemResponse{item=models.Program}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Failure 409 {object} dto.ErrorResponse "Program code already exists"
// @Router /programs [post]
func (c *CatalogController) CreateProgram(ctx *gin.Context) {
	var req dto.CreateProgramRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	program, err := c.catalog.CreateProgram(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusCreated, program)
}

// UpdateProgram changes the fields present in the body
// @Summary Update program
// @Tags programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Param request body dto.UpdateProgramRequest true "Fields to change"
// @Success 200 {object} dto.ItemResponse{item=models.Program}
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Router /programs/{id} [patch]
func (c *CatalogController) UpdateProgram(ctx *gin.Context) {
	var req dto.UpdateProgramRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	program, err := c.catalog.UpdateProgram(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), ctx.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusOK, program)
}

// DeleteProgram removes a program without semesters or students
// @Summary Delete program
// @Tags programs
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 409 {object} dto.ErrorResponse "Program still referenced"
// @Router /programs/{id} [delete]
func (c *CatalogController) DeleteProgram(ctx *gin.Context) {
	if err := c.catalog.DeleteProgram(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Program deleted"})
}

// --- Semesters ---

// ListSemesters lists semesters by number
// @Summary List semesters
// @Tags semesters
// @Produce json
// @Security BearerAuth
// @Param programId query string false "Filter by program ID"
// @Success 200 {object} dto.ItemsResponse{items=[]models.Semester}
// @Router /semesters [get]
func (c *CatalogController) ListSemesters(ctx *gin.Context) {
	semesters, err := c.catalog.ListSemesters(ctx.Request.Context(), ctx.Query("programId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	items(ctx, semesters)
}

// CreateSemester handles semester creation
// @Summary Create semester
// @Tags semesters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSemesterRequest true "Semester information"
// @Success 201 {object} dto.ItemResponse{item=models.Semester}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Failure 409 {object} dto.ErrorResponse "Semester number already used in the program"
// @Router /semesters [post]
func (c *CatalogController) CreateSemester(ctx *gin.Context) {
	var req dto.CreateSemesterRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	semester, err := c.catalog.CreateSemester(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusCreated, semester)
}

// UpdateSemester changes the fields present in the body
// @Summary Update semester
// @Tags semesters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Semester ID"
// @Param request body dto.UpdateSemesterRequest true "Fields to change"
// @Success 200 {object} dto.ItemResponse{item=models.Semester}
// @Router /semesters/{id} [patch]
func (c *CatalogController) UpdateSemester(ctx *gin.Context) {
	var req dto.UpdateSemesterRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	semester, err := c.catalog.UpdateSemester(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), ctx.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusOK, semester)
}

// DeleteSemester
// @Summary Delete semester
// @Tags semesters
// @Security BearerAuth
// @Param id path string true "Semester ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 409 {object} dto.ErrorResponse "Semester still has offerings"
// @Router /semesters/{id} [delete]
func (c *CatalogController) DeleteSemester(ctx *gin.Context) {
	if err := c.catalog.DeleteSemester(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Semester deleted"})
}

// --- Courses ---

// ListCourses
// @Summary List courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param programId query string false "Filter by program ID"
// @Success 200 {object} dto.ItemsResponse{items=[]models.Course}
// @Router /courses [get]
func (c *CatalogController) ListCourses(ctx *gin.Context) {
	courses, err := c.catalog.ListCourses(ctx.Request.Context(), ctx.Query("programId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	items(ctx, courses)
}

// CreateCourse handles course creation
// @Summary Create course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course information"
// @Success 201 {object} dto.ItemResponse{item=models.Course}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Course code already exists"
// @Router /courses [post]
func (c *CatalogController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	course, err := c.catalog.CreateCourse(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusCreated, course)
}

// UpdateCourse
// @Summary Update course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param request body dto.UpdateCourseRequest true "Fields to change"
// @Success 200 {object} dto.ItemResponse{item=models.Course}
// @Router /courses/{id} [patch]
func (c *CatalogController) UpdateCourse(ctx *gin.Context) {
	var req dto.UpdateCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	course, err := c.catalog.UpdateCourse(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), ctx.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusOK, course)
}

// DeleteCourse
// @Summary Delete course
// @Tags courses
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 409 {object} dto.ErrorResponse "Course still has offerings"
// @Router /courses/{id} [delete]
func (c *CatalogController) DeleteCourse(ctx *gin.Context) {
	if err := c.catalog.DeleteCourse(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Course deleted"})
}

// --- Course offerings ---

// ListOfferings lists offerings with course, semester and faculty composed
// @Summary List course offerings
// @Tags course-offerings
// @Produce json
// @Security BearerAuth
// @Param semesterId query string false "Filter by semester ID"
// @Param programId query string false "Filter by program ID"
// @Param facultyId query string false "Filter by faculty ID"
// @Param q query string false "Matches course code, course name or section"
// @Success 200 {object} dto.ItemsResponse{items=[]models.CourseOffering}
// @Router /course-offerings [get]
func (c *CatalogController) ListOfferings(ctx *gin.Context) {
	offerings, err := c.catalog.ListOfferings(ctx.Request.Context(), repositories.OfferingFilter{
		SemesterID: ctx.Query("semesterId"),
		ProgramID:  ctx.Query("programId"),
		FacultyID:  ctx.Query("facultyId"),
		Query:      ctx.Query("q"),
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	items(ctx, offerings)
}

// GetOffering
// @Summary Get course offering
// @Tags course-offerings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offering ID"
// @Success 200 {object} dto.ItemResponse{item=models.CourseOffering}
// @Failure 404 {object} dto.ErrorResponse "Course offering not found"
// @Router /course-offerings/{id} [get]
func (c *CatalogController) GetOffering(ctx *gin.Context) {
	offering, err := c.catalog.GetOffering(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusOK, offering)
}

// CreateOffering schedules a course in a semester with a teacher
// @Summary Create course offering
// @Tags course-offerings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateOfferingRequest true "Offering information"
// @Success 201 {object} dto.ItemResponse{item=models.CourseOffering}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Course, semester or faculty not found"
// @Failure 409 {object} dto.ErrorResponse "Section already exists"
// @Router /course-offerings [post]
func (c *CatalogController) CreateOffering(ctx *gin.Context) {
	var req dto.CreateOfferingRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	offering, err := c.catalog.CreateOffering(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusCreated, offering)
}

// UpdateOffering
// @Summary Update course offering
// @Tags course-offerings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offering ID"
// @Param request body dto.UpdateOfferingRequest true "Fields to change"
// @Success 200 {object} dto.ItemResponse{item=models.CourseOffering}
// @Failure 404 {object} dto.ErrorResponse "Offering or referenced entity not found"
// @Router /course-offerings/{id} [patch]
func (c *CatalogController) UpdateOffering(ctx *gin.Context) {
	var req dto.UpdateOfferingRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	offering, err := c.catalog.UpdateOffering(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), ctx.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusOK, offering)
}

// DeleteOffering
// @Summary Delete course offering
// @Tags course-offerings
// @Security BearerAuth
// @Param id path string true "Offering ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 409 {object} dto.ErrorResponse "Offering still has enrollments"
// @Router /course-offerings/{id} [delete]
func (c *CatalogController) DeleteOffering(ctx *gin.Context) {
	if err := c.catalog.DeleteOffering(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Course offering deleted"})
}
