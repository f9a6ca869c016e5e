package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/iams/internal/app/models/dto"
	"github.com/yigit/iams/internal/app/services"
	"github.com/yigit/iams/internal/middleware"
)

// AdmissionController handles applications from submission to student account
type AdmissionController struct {
	admissions *services.AdmissionService
}

// NewAdmissionController creates a new AdmissionController
func NewAdmissionController(admissions *services.AdmissionService) *AdmissionController {
	return &AdmissionController{admissions: admissions}
}

// Submit stores a public application
// @Summary Apply for admission
// @Tags admissions
// @Accept json
// @Produce json
// @Param request body dto.SubmitAdmissionRequest true "Application"
// @Success 201 {object} dto.ItemResponse{item=models.AdmissionApplication}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Router /admissions [post]
func (c *AdmissionController) Submit(ctx *gin.Context) {
	var req dto.SubmitAdmissionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	app, err := c.admissions.Submit(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.ItemResponse{Message: "Application submitted", Item: app})
}

// List
// @Summary List applications
// @Tags admissions
// @Produce json
// @Security BearerAuth
// @Param status query string false "PENDING, APPROVED or REJECTED"
// @Success 200 {object} dto.ItemsResponse{items=[]models.AdmissionApplication}
// @Failure 400 {object} dto.ErrorResponse "Invalid status filter"
// @Router /admissions [get]
func (c *AdmissionController) List(ctx *gin.Context) {
	apps, err := c.admissions.List(ctx.Request.Context(), ctx.Query("status"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	items(ctx, apps)
}

// Get
// @Summary Get application
// @Tags admissions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} dto.ItemResponse{item=models.AdmissionApplication}
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /admissions/{id} [get]
func (c *AdmissionController) Get(ctx *gin.Context) {
	app, err := c.admissions.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusOK, app)
}

// Update applies a review decision and/or remarks
// @Summary Review application
// @Tags admissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body dto.UpdateAdmissionRequest true "Decision"
// @Success 200 {object} dto.ItemResponse{item=models.AdmissionApplication}
// @Failure 400 {object} dto.ErrorResponse "Transition not allowed"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Application already converted"
// @Router /admissions/{id} [patch]
func (c *AdmissionController) Update(ctx *gin.Context) {
	var req dto.UpdateAdmissionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	app, err := c.admissions.Update(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), ctx.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusOK, app)
}

// CreateStudent converts an APPROVED application into a student account.
// It answers 201 when a user or student was created and 200 when existing
// records were linked.
// @Summary Convert application to student
// @Tags admissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body dto.ConvertAdmissionRequest true "Enrollment number"
// @Success 200 {object} dto.ItemResponse{item=dto.ConversionResult} "Existing records linked"
// @Success 201 {object} dto.ItemResponse{item=dto.ConversionResult} "Student created"
// @Failure 400 {object} dto.ErrorResponse "Application not approved"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Already converted or enrollment number in use"
// @Router /admissions/{id}/create-student [post]
func (c *AdmissionController) CreateStudent(ctx *gin.Context) {
	var req dto.ConvertAdmissionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	res, err := c.admissions.Convert(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), ctx.Param("id"), req.EnrollmentNo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	ctx.JSON(status, dto.ItemResponse{Message: "Student account ready", Item: res})
}
