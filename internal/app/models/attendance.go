package models

import "time"

// AttendanceSession is one class meeting of an offering on a calendar day
type AttendanceSession struct {
	ID          string      `json:"id" db:"id"`
	OfferingID  string      `json:"offeringId" db:"offering_id"`
	SessionDate time.Time   `json:"sessionDate" db:"session_date"` // 00:00 UTC of the day
	Mode        SessionMode `json:"mode" db:"mode" example:"OFFLINE"`
	StartTime   string      `json:"startTime,omitempty" db:"start_time" example:"09:00"`
	EndTime     string      `json:"endTime,omitempty" db:"end_time" example:"10:00"`
	Topic       string      `json:"topic,omitempty" db:"topic"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" db:"updated_at"`

	Offering *CourseOffering `json:"offering,omitempty"`
}

// AttendanceRecord is the status of one enrollment in one session
type AttendanceRecord struct {
	ID           string           `json:"id" db:"id"`
	SessionID    string           `json:"sessionId" db:"session_id"`
	EnrollmentID string           `json:"enrollmentId" db:"enrollment_id"`
	StudentID    string           `json:"studentId" db:"student_id"`
	Status       AttendanceStatus `json:"status" db:"status" example:"PRESENT"`
	Remarks      string           `json:"remarks,omitempty" db:"remarks"`
	CreatedAt    time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time        `json:"updatedAt" db:"updated_at"`

	Enrollment *Enrollment `json:"enrollment,omitempty"`
}

// StartOfDay returns 00:00 UTC of t's calendar date, read in t's own location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
