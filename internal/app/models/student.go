package models

import "time"

// Student defines the student model based on the 'students' table
type Student struct {
	ID                string        `json:"id" db:"id"`
	UserID            string        `json:"userId" db:"user_id"`
	ProgramID         string        `json:"programId" db:"program_id"`
	CurrentSemesterID *string       `json:"currentSemesterId,omitempty" db:"current_semester_id"`
	EnrollmentNo      string        `json:"enrollmentNo" db:"enrollment_no" example:"2025CS001"`
	BatchYear         *int          `json:"batchYear,omitempty" db:"batch_year"`
	Status            StudentStatus `json:"status" db:"status" example:"ACTIVE"`
	CreatedAt         time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time     `json:"updatedAt" db:"updated_at"`

	User            *User     `json:"user,omitempty"`
	Program         *Program  `json:"program,omitempty"`
	CurrentSemester *Semester `json:"currentSemester,omitempty"`
}
