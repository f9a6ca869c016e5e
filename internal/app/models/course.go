package models

import "time"

// Course defines the course model based on the 'courses' table
type Course struct {
	ID          string     `json:"id" db:"id"`
	Code        string     `json:"code" db:"code" example:"CS101"`
	Name        string     `json:"name" db:"name" example:"Programming Fundamentals"`
	Credits     int        `json:"credits" db:"credits" example:"4"`
	Type        CourseType `json:"type" db:"type" example:"CORE"`
	ProgramID   *string    `json:"programId,omitempty" db:"program_id"` // nil for courses open to every program
	Description string     `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`

	Program *Program `json:"program,omitempty"`
}
