package models

import "time"

// Enrollment registers a student into an offering
type Enrollment struct {
	ID         string           `json:"id" db:"id"`
	StudentID  string           `json:"studentId" db:"student_id"`
	OfferingID string           `json:"offeringId" db:"offering_id"`
	Status     EnrollmentStatus `json:"status" db:"status" example:"ACTIVE"`
	EnrolledAt time.Time        `json:"enrolledAt" db:"enrolled_at"`
	DroppedAt  *time.Time       `json:"droppedAt,omitempty" db:"dropped_at"`
	UpdatedAt  time.Time        `json:"updatedAt" db:"updated_at"`

	Student  *Student        `json:"student,omitempty"`
	Offering *CourseOffering `json:"offering,omitempty"`
}
