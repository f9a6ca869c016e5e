package models

import "time"

// ScheduleSlot is one weekly meeting of an offering
type ScheduleSlot struct {
	Day       Weekday `json:"day" example:"MON"`
	StartTime string  `json:"startTime" example:"09:00"`
	EndTime   string  `json:"endTime" example:"10:00"`
	Room      string  `json:"room,omitempty" example:"B-204"`
}

// CourseOffering represents a course taught by a faculty member in a semester and section.
type CourseOffering struct {
	ID          string         `json:"id" db:"id"`
	CourseID    string         `json:"courseId" db:"course_id"`
	SemesterID  string         `json:"semesterId" db:"semester_id"`
	FacultyID   string         `json:"facultyId" db:"faculty_id"`
	Section     string         `json:"section" db:"section" example:"A"`
	Year        int            `json:"year" db:"year" example:"2025"`
	MaxCapacity int            `json:"maxCapacity" db:"max_capacity" example:"60"`
	Schedule    []ScheduleSlot `json:"schedule" db:"schedule"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Course   *Course   `json:"course,omitempty"`
	Semester *Semester `json:"semester,omitempty"`
	Faculty  *Faculty  `json:"faculty,omitempty"`
}

// ProgramID returns the program the offering is scoped to, if it is known.
// The semester's program wins over the course's.
func (o *CourseOffering) ProgramID() string {
	if o.Semester != nil && o.Semester.ProgramID != "" {
		return o.Semester.ProgramID
	}
	if o.Course != nil && o.Course.ProgramID != nil {
		return *o.Course.ProgramID
	}
	return ""
}
