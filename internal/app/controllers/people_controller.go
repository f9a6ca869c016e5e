package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/iams/internal/app/models/dto"
	"github.com/yigit/iams/internal/app/services"
	"github.com/yigit/iams/internal/middleware"
)

// PeopleController provisions student and faculty accounts
type PeopleController struct {
	people *services.PeopleService
}

// NewPeopleController creates a new PeopleController
func NewPeopleController(people *services.PeopleService) *PeopleController {
	return &PeopleController{people: people}
}

// ListStudents
// @Summary List students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param programId query string false "Filter by program ID"
// @Success 200 {object} dto.ItemsResponse{items=[]models.Student}
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /students [get]
func (c *PeopleController) ListStudents(ctx *gin.Context) {
	students, err := c.people.ListStudents(ctx.Request.Context(), ctx.Query("programId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	items(ctx, students)
}

// GetStudent
// @Summary Get student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.ItemResponse{item=models.Student}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *PeopleController) GetStudent(ctx *gin.Context) {
	student, err := c.people.GetStudent(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusOK, student)
}

// CreateStudent creates a STUDENT user and its profile in one transaction.
// The generated password is returned once when none was supplied.
// @Summary Create student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student account"
// @Success 201 {object} dto.ItemResponse{item=dto.AccountResult}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Failure 409 {object} dto.ErrorResponse "Email or enrollment number already in use"
// @Router /students [post]
func (c *PeopleController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	res, err := c.people.CreateStudent(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusCreated, res)
}

// ListFaculty
// @Summary List faculty
// @Tags faculty
// @Produce json
// @Security BearerAuth
// @Param departmentId query string false "Filter by department ID"
// @Success 200 {object} dto.ItemsResponse{items=[]models.Faculty}
// @Router /faculty [get]
func (c *PeopleController) ListFaculty(ctx *gin.Context) {
	members, err := c.people.ListFaculty(ctx.Request.Context(), ctx.Query("departmentId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	items(ctx, members)
}

// CreateFaculty creates a FACULTY user and its profile in one transaction
// @Summary Create faculty member
// @Tags faculty
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateFacultyRequest true "Faculty account"
// @Success 201 {object} dto.ItemResponse{item=dto.AccountResult}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Failure 409 {object} dto.ErrorResponse "Email or employee code already in use"
// @Router /faculty [post]
func (c *PeopleController) CreateFaculty(ctx *gin.Context) {
	var req dto.CreateFacultyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	res, err := c.people.CreateFaculty(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusCreated, res)
}
