package dto

import (
	"time"

	"github.com/yigit/iams/internal/app/models"
)

type EnrollRequest struct {
	OfferingID string `json:"offeringId" binding:"required"`
}

type StartSessionRequest struct {
	OfferingID  string    `json:"offeringId" binding:"required"`
	SessionDate time.Time `json:"sessionDate" binding:"required"`
	Mode        string    `json:"mode" binding:"omitempty,oneof=OFFLINE ONLINE"`
	StartTime   string    `json:"startTime" binding:"omitempty,hhmm"`
	EndTime     string    `json:"endTime" binding:"omitempty,hhmm"`
	Topic       string    `json:"topic"`
}

// AttendanceEntry is one line of a roster; an empty status means ABSENT
type AttendanceEntry struct {
	EnrollmentID string `json:"enrollmentId" binding:"required"`
	Status       string `json:"status" example:"PRESENT"`
	Remarks      string `json:"remarks"`
}

type UpsertAttendanceRequest struct {
	SessionID string            `json:"sessionId" binding:"required"`
	Records   []AttendanceEntry `json:"records" binding:"required,min=1,dive"`
}

type CreateExamRequest struct {
	OfferingID string    `json:"offeringId" binding:"required"`
	Title      string    `json:"title" binding:"required"`
	Type       string    `json:"type" binding:"omitempty,oneof=INTERNAL MIDTERM FINAL QUIZ PRACTICAL OTHER"`
	ExamDate   time.Time `json:"examDate" binding:"required"`
	MaxMarks   float64   `json:"maxMarks" binding:"required,gt=0"`
	Weightage  float64   `json:"weightage" binding:"min=0,max=100"`
}

type UpdateExamRequest struct {
	Title     *string    `json:"title" binding:"omitempty,min=1"`
	Type      *string    `json:"type" binding:"omitempty,oneof=INTERNAL MIDTERM FINAL QUIZ PRACTICAL OTHER"`
	ExamDate  *time.Time `json:"examDate"`
	MaxMarks  *float64   `json:"maxMarks" binding:"omitempty,gt=0"`
	Weightage *float64   `json:"weightage" binding:"omitempty,min=0,max=100"`
}

// ResultEntry is one mark line; missing marks mean 0 and missing status PRESENT
type ResultEntry struct {
	EnrollmentID string   `json:"enrollmentId" binding:"required"`
	Marks        *float64 `json:"marks"`
	Grade        string   `json:"grade"`
	Status       string   `json:"status"`
}

type UpsertResultsRequest struct {
	ExamID  string        `json:"examId" binding:"required"`
	Results []ResultEntry `json:"results" binding:"required,min=1,dive"`
}

// SessionResult reports a find-or-create outcome
type SessionResult struct {
	Session *models.AttendanceSession
	Created bool
}
