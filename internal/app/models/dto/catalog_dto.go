package dto

import (
	"time"

	"github.com/yigit/iams/internal/app/models"
)

type CreateDepartmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Code        string `json:"code" binding:"required"`
	Description string `json:"description"`
}

// UpdateDepartmentRequest holds the fields to change; nil fields are kept
type UpdateDepartmentRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	Code        *string `json:"code" binding:"omitempty,min=1"`
	Description *string `json:"description"`
}

type CreateProgramRequest struct {
	Name          string              `json:"name" binding:"required"`
	Code          string              `json:"code" binding:"required"`
	DepartmentID  string              `json:"departmentId" binding:"required"`
	DurationYears int                 `json:"durationYears" binding:"omitempty,min=1,max=10"`
	Level         models.ProgramLevel `json:"level" binding:"omitempty,oneof=UG PG DIPLOMA OTHER"`
	IsActive      *bool               `json:"isActive"`
}

type UpdateProgramRequest struct {
	Name          *string              `json:"name" binding:"omitempty,min=1"`
	Code          *string              `json:"code" binding:"omitempty,min=1"`
	DepartmentID  *string              `json:"departmentId" binding:"omitempty,min=1"`
	DurationYears *int                 `json:"durationYears" binding:"omitempty,min=1,max=10"`
	Level         *models.ProgramLevel `json:"level" binding:"omitempty,oneof=UG PG DIPLOMA OTHER"`
	IsActive      *bool                `json:"isActive"`
}

type CreateSemesterRequest struct {
	Name         string     `json:"name" binding:"required"`
	Number       int        `json:"number" binding:"required,min=1"`
	AcademicYear string     `json:"academicYear"`
	ProgramID    string     `json:"programId" binding:"required"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	IsActive     *bool      `json:"isActive"`
}

type UpdateSemesterRequest struct {
	Name         *string    `json:"name" binding:"omitempty,min=1"`
	Number       *int       `json:"number" binding:"omitempty,min=1"`
	AcademicYear *string    `json:"academicYear"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	IsActive     *bool      `json:"isActive"`
}

type CreateCourseRequest struct {
	Code        string            `json:"code" binding:"required"`
	Name        string            `json:"name" binding:"required"`
	Credits     int               `json:"credits" binding:"min=0,max=40"`
	Type        models.CourseType `json:"type" binding:"omitempty,oneof=CORE ELECTIVE LAB"`
	ProgramID   *string           `json:"programId"`
	Description string            `json:"description"`
}

type UpdateCourseRequest struct {
	Code        *string            `json:"code" binding:"omitempty,min=1"`
	Name        *string            `json:"name" binding:"omitempty,min=1"`
	Credits     *int               `json:"credits" binding:"omitempty,min=0,max=40"`
	Type        *models.CourseType `json:"type" binding:"omitempty,oneof=CORE ELECTIVE LAB"`
	ProgramID   *string            `json:"programId"`
	Description *string            `json:"description"`
}

// ScheduleSlotRequest is one weekly meeting in an offering payload
type ScheduleSlotRequest struct {
	Day       string `json:"day" binding:"required,weekday" example:"MON"`
	StartTime string `json:"startTime" binding:"required,hhmm" example:"09:00"`
	EndTime   string `json:"endTime" binding:"required,hhmm" example:"10:00"`
	Room      string `json:"room"`
}

type CreateOfferingRequest struct {
	CourseID    string                `json:"courseId" binding:"required"`
	SemesterID  string                `json:"semesterId" binding:"required"`
	FacultyID   string                `json:"facultyId" binding:"required"`
	Section     string                `json:"section"`
	Year        int                   `json:"year" binding:"required,min=1900,max=3000"`
	MaxCapacity int                   `json:"maxCapacity" binding:"omitempty,min=1"`
	Schedule    []ScheduleSlotRequest `json:"schedule" binding:"omitempty,dive"`
}

type UpdateOfferingRequest struct {
	CourseID    *string                `json:"courseId" binding:"omitempty,min=1"`
	SemesterID  *string                `json:"semesterId" binding:"omitempty,min=1"`
	FacultyID   *string                `json:"facultyId" binding:"omitempty,min=1"`
	Section     *string                `json:"section" binding:"omitempty,min=1"`
	Year        *int                   `json:"year" binding:"omitempty,min=1900,max=3000"`
	MaxCapacity *int                   `json:"maxCapacity" binding:"omitempty,min=1"`
	Schedule    *[]ScheduleSlotRequest `json:"schedule" binding:"omitempty,dive"`
}

// Slots converts the payload schedule
func Slots(in []ScheduleSlotRequest) []models.ScheduleSlot {
	out := make([]models.ScheduleSlot, 0, len(in))
	for _, s := range in {
		out = append(out, models.ScheduleSlot{
			Day:       models.Weekday(s.Day),
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Room:      s.Room,
		})
	}
	return out
}
