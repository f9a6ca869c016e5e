package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/iams/internal/app/models/dto"
	"github.com/yigit/iams/internal/app/services"
	"github.com/yigit/iams/internal/middleware"
	"github.com/yigit/iams/internal/pkg/helpers"
)

// EnrollmentController handles course registration
type EnrollmentController struct {
	enrollments *services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollments *services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{enrollments: enrollments}
}

// ListMine lists the caller's enrollments
// @Summary List my enrollments
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param includeDropped query bool false "Include dropped enrollments"
// @Success 200 {object} dto.ItemsResponse{items=[]models.Enrollment}
// @Failure 404 {object} dto.ErrorResponse "Student profile not found"
// @Router /enrollments [get]
func (c *EnrollmentController) ListMine(ctx *gin.Context) {
	list, err := c.enrollments.ListMine(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), helpers.QueryBool(ctx, "includeDropped"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	items(ctx, list)
}

// Register enrolls the caller in an offering of their program
// @Summary Register for an offering
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnrollRequest true "Offering to join"
// @Success 201 {object} dto.ItemResponse{item=models.Enrollment}
// @Failure 400 {object} dto.ErrorResponse "Offering belongs to another program"
// @Failure 404 {object} dto.ErrorResponse "Student profile or offering not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled or offering full"
// @Router /enrollments [post]
func (c *EnrollmentController) Register(ctx *gin.Context) {
	var req dto.EnrollRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	enrollment, err := c.enrollments.Register(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), req.OfferingID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusCreated, enrollment)
}

// Drop soft-drops one of the caller's active enrollments
// @Summary Drop an enrollment
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Enrollment ID"
// @Success 200 {object} dto.ItemResponse{item=models.Enrollment}
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{id} [delete]
func (c *EnrollmentController) Drop(ctx *gin.Context) {
	enrollment, err := c.enrollments.Drop(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ItemResponse{Message: "Enrollment dropped", Item: enrollment})
}

// ListByOffering returns the live roster of an offering
// @Summary Offering roster
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param offeringId query string true "Offering ID"
// @Success 200 {object} dto.ItemsResponse{items=[]models.Enrollment}
// @Failure 403 {object} dto.ErrorResponse "You do not teach this offering"
// @Failure 404 {object} dto.ErrorResponse "Course offering not found"
// @Router /enrollments/by-offering [get]
func (c *EnrollmentController) ListByOffering(ctx *gin.Context) {
	offeringID, ok := requiredQuery(ctx, "offeringId")
	if !ok {
		return
	}
	roster, err := c.enrollments.ListByOffering(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), offeringID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	items(ctx, roster)
}
