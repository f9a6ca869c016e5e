package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/iams/internal/app/services"
	"github.com/yigit/iams/internal/middleware"
	"github.com/yigit/iams/internal/pkg/helpers"
)

// DashboardController serves the per-role home screens, analytics and the
// audit trail
type DashboardController struct {
	dashboards *services.DashboardService
	audit      *services.AuditService
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboards *services.DashboardService, audit *services.AuditService) *DashboardController {
	return &DashboardController{dashboards: dashboards, audit: audit}
}

// Student
// @Summary Student dashboard
// @Tags dashboards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ItemResponse{item=dto.StudentDashboard}
// @Failure 404 {object} dto.ErrorResponse "Student profile not found"
// @Router /me/student [get]
func (c *DashboardController) Student(ctx *gin.Context) {
	out, err := c.dashboards.Student(ctx.Request.Context(), middleware.CurrentPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusOK, out)
}

// StudentExams
// @Summary Student exam breakdown
// @Tags dashboards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ItemResponse{item=dto.StudentExams}
// @Router /me/student/exams [get]
func (c *DashboardController) StudentExams(ctx *gin.Context) {
	out, err := c.dashboards.StudentExams(ctx.Request.Context(), middleware.CurrentPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusOK, out)
}

// StudentAttendance
// @Summary Student attendance breakdown
// @Tags dashboards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ItemResponse{item=dto.StudentAttendance}
// @Router /me/student/attendance [get]
func (c *DashboardController) StudentAttendance(ctx *gin.Context) {
	out, err := c.dashboards.StudentAttendance(ctx.Request.Context(), middleware.CurrentPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusOK, out)
}

// Faculty
// @Summary Faculty dashboard
// @Tags dashboards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ItemResponse{item=dto.FacultyDashboard}
// @Failure 404 {object} dto.ErrorResponse "Faculty profile not found"
// @Router /me/faculty [get]
func (c *DashboardController) Faculty(ctx *gin.Context) {
	out, err := c.dashboards.Faculty(ctx.Request.Context(), middleware.CurrentPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusOK, out)
}

// Admin
// @Summary Admin dashboard
// @Tags dashboards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ItemResponse{item=dto.AdminDashboard}
// @Router /me/admin [get]
func (c *DashboardController) Admin(ctx *gin.Context) {
	out, err := c.dashboards.Admin(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusOK, out)
}

// Analytics
// @Summary Analytics overview
// @Description Admissions for the last six months, pass rate and attendance rate per course
// @Tags dashboards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ItemResponse{item=dto.AnalyticsOverview}
// @Router /analytics/overview [get]
func (c *DashboardController) Analytics(ctx *gin.Context) {
	out, err := c.dashboards.Analytics(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	item(ctx, http.StatusOK, out)
}

// AuditLogs returns the newest audit entries
// @Summary Audit trail
// @Tags audit
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of entries (default 50, max 200)"
// @Success 200 {object} dto.ItemsResponse{items=[]audit.Entry}
// @Router /audit-logs [get]
func (c *DashboardController) AuditLogs(ctx *gin.Context) {
	limit := helpers.QueryLimit(ctx, "limit", services.DefaultAuditLimit, services.MaxAuditLimit)
	entries, err := c.audit.List(ctx.Request.Context(), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	items(ctx, entries)
}
