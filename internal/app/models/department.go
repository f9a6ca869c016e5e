package models

import "time"

// Department defines the department model based on the 'departments' table
type Department struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" example:"Computer Science"`
	Code        string    `json:"code" db:"code" example:"CSE"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Program is a degree programme run by a department
type Program struct {
	ID            string       `json:"id" db:"id"`
	Name          string       `json:"name" db:"name" example:"B.Tech Computer Science"`
	Code          string       `json:"code" db:"code" example:"BTECH-CS"`
	DepartmentID  string       `json:"departmentId" db:"department_id"`
	DurationYears int          `json:"durationYears" db:"duration_years" example:"4"`
	Level         ProgramLevel `json:"level" db:"level" example:"UG"`
	IsActive      bool         `json:"isActive" db:"is_active"`
	CreatedAt     time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time    `json:"updatedAt" db:"updated_at"`

	Department *Department `json:"department,omitempty"`
}

// Semester is one term of a program
type Semester struct {
	ID           string     `json:"id" db:"id"`
	Name         string     `json:"name" db:"name" example:"Semester 1"`
	Number       int        `json:"number" db:"number" example:"1"`
	AcademicYear string     `json:"academicYear" db:"academic_year" example:"2025-26"`
	ProgramID    string     `json:"programId" db:"program_id"`
	StartDate    *time.Time `json:"startDate,omitempty" db:"start_date"`
	EndDate      *time.Time `json:"endDate,omitempty" db:"end_date"`
	IsActive     bool       `json:"isActive" db:"is_active"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`

	Program *Program `json:"program,omitempty"`
}
