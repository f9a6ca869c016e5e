package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/iams/internal/app/models/dto"
	"github.com/yigit/iams/internal/app/services"
	"github.com/yigit/iams/internal/middleware"
)

// AttendanceController handles class sessions and their rosters
type AttendanceController struct {
	attendance *services.AttendanceService
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(attendance *services.AttendanceService) *AttendanceController {
	return &AttendanceController{attendance: attendance}
}

// ListSessions
// @Summary List attendance sessions
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param offeringId query string false "Offering ID"
// @Param from query string false "Earliest session date (YYYY-MM-DD)"
// @Param to query string false "Latest session date (YYYY-MM-DD)"
// @Success 200 {object} dto.ItemsResponse{items=[]models.AttendanceSession}
// @Failure 400 {object} dto.ErrorResponse "Malformed date"
// @Failure 403 {object} dto.ErrorResponse "You do not teach this offering"
// @Router /attendance-sessions [get]
func (c *AttendanceController) ListSessions(ctx *gin.Context) {
	from, ok := queryTime(ctx, "from")
	if !ok {
		return
	}
	to, ok := queryTime(ctx, "to")
	if !ok {
		return
	}
	sessions, err := c.attendance.ListSessions(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), ctx.Query("offeringId"), from, to)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	items(ctx, sessions)
}

// StartSession finds or creates the session of an offering for a day.
// A new session answers 201; an existing one 200.
// @Summary Start attendance session
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.StartSessionRequest true "Session"
// @Success 200 {object} dto.ItemResponse{item=models.AttendanceSession} "Existing session"
// @Success 201 {object} dto.ItemResponse{item=models.AttendanceSession} "Session created"
// @Failure 403 {object} dto.ErrorResponse "You do not teach this offering"
// @Failure 404 {object} dto.ErrorResponse "Course offering not found"
// @Router /attendance-sessions [post]
func (c *AttendanceController) StartSession(ctx *gin.Context) {
	var req dto.StartSessionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	res, err := c.attendance.StartSession(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	item(ctx, status, res.Session)
}

// ListRecords
// @Summary List attendance records of a session
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param sessionId query string true "Session ID"
// @Success 200 {object} dto.ItemsResponse{items=[]models.AttendanceRecord}
// @Failure 404 {object} dto.ErrorResponse "Attendance session not found"
// @Router /attendance-records [get]
func (c *AttendanceController) ListRecords(ctx *gin.Context) {
	sessionID, ok := requiredQuery(ctx, "sessionId")
	if !ok {
		return
	}
	records, err := c.attendance.ListRecords(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), sessionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	items(ctx, records)
}

// UpsertRecords writes a session roster keyed by enrollment
// @Summary Record attendance
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpsertAttendanceRequest true "Roster"
// @Success 200 {object} dto.ItemsResponse{items=[]models.AttendanceRecord}
// @Failure 400 {object} dto.ErrorResponse "Unknown status or enrollment outside the offering"
// @Failure 403 {object} dto.ErrorResponse "You do not teach this offering"
// @Failure 404 {object} dto.ErrorResponse "Attendance session not found"
// @Router /attendance-records [post]
func (c *AttendanceController) UpsertRecords(ctx *gin.Context) {
	var req dto.UpsertAttendanceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	records, err := c.attendance.UpsertRecords(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	items(ctx, records)
}
