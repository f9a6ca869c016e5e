package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/iams/internal/app/models/dto"
	"github.com/yigit/iams/internal/app/services"
	"github.com/yigit/iams/internal/middleware"
)

// ExamController handles exams and marks
type ExamController struct {
	exams *services.ExamService
}

// NewExamController creates a new ExamController
func NewExamController(exams *services.ExamService) *ExamController {
	return &ExamController{exams: exams}
}

// List returns exams by date. Students only see exams of offerings they are
// enrolled in.
// @Summary List exams
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param offeringId query string false "Offering ID"
// @Success 200 {object} dto.ItemsResponse{items=[]models.Exam}
// @Router /exams [get]
func (c *ExamController) List(ctx *gin.Context) {
	exams, err := c.exams.List(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), ctx.Query("offeringId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	items(ctx, exams)
}

// Get
// @Summary Get exam
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exam ID"
// @Success 200 {object} dto.ItemResponse{item=models.Exam}
// @Failure 403 {object} dto.ErrorResponse "Not enrolled or not teaching"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /exams/{id} [get]
func (c *ExamController) Get(ctx *gin.Context) {
	exam, err := c.exams.Get(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusOK, exam)
}

// Create
// @Summary Create exam
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateExamRequest true "Exam"
// @Success 201 {object} dto.ItemResponse{item=models.Exam}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "You do not teach this offering"
// @Failure 404 {object} dto.ErrorResponse "Course offering not found"
// @Router /exams [post]
func (c *ExamController) Create(ctx *gin.Context) {
	var req dto.CreateExamRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	exam, err := c.exams.Create(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusCreated, exam)
}

// Update
// @Summary Update exam
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exam ID"
// @Param request body dto.UpdateExamRequest true "Fields to change"
// @Success 200 {object} dto.ItemResponse{item=models.Exam}
// @Failure 400 {object} dto.ErrorResponse "Existing marks exceed the new maximum"
// @Router /exams/{id} [patch]
func (c *ExamController) Update(ctx *gin.Context) {
	var req dto.UpdateExamRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	exam, err := c.exams.Update(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), ctx.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusOK, exam)
}

// Delete removes an exam and its results
// @Summary Delete exam
// @Tags exams
// @Security BearerAuth
// @Param id path string true "Exam ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /exams/{id} [delete]
func (c *ExamController) Delete(ctx *gin.Context) {
	if err := c.exams.Delete(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Exam deleted"})
}

// ListResults
// @Summary List exam results
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param examId query string true "Exam ID"
// @Success 200 {object} dto.ItemsResponse{items=[]models.ExamResult}
// @Router /exam-results [get]
func (c *ExamController) ListResults(ctx *gin.Context) {
	examID, ok := requiredQuery(ctx, "examId")
	if !ok {
		return
	}
	results, err := c.exams.ListResults(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), examID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	items(ctx, results)
}

// UpsertResults writes marks keyed by enrollment
// @Summary Record exam results
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpsertResultsRequest true "Marks"
// @Success 200 {object} dto.ItemsResponse{items=[]models.ExamResult}
// @Failure 400 {object} dto.ErrorResponse "Marks out of range or enrollment outside the offering"
// @Router /exam-results [post]
func (c *ExamController) UpsertResults(ctx *gin.Context) {
	var req dto.UpsertResultsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	results, err := c.exams.UpsertResults(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	items(ctx, results)
}
