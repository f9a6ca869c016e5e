package models

import "time"

// AdmissionApplication is a public application to a program
type AdmissionApplication struct {
	ID                    string          `json:"id" db:"id"`
	FullName              string          `json:"fullName" db:"full_name"`
	Email                 string          `json:"email" db:"email"`
	Phone                 string          `json:"phone,omitempty" db:"phone"`
	DateOfBirth           *time.Time      `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	ProgramID             string          `json:"programId" db:"program_id"`
	PreviousQualification string          `json:"previousQualification,omitempty" db:"previous_qualification"`
	Status                AdmissionStatus `json:"status" db:"status" example:"PENDING"`
	AppliedAt             time.Time       `json:"appliedAt" db:"applied_at"`
	DecisionAt            *time.Time      `json:"decisionAt,omitempty" db:"decision_at"`
	Remarks               string          `json:"remarks,omitempty" db:"remarks"`
	StudentID             *string         `json:"studentId,omitempty" db:"student_id"`
	UserID                *string         `json:"userId,omitempty" db:"user_id"`
	CreatedAt             time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt             time.Time       `json:"updatedAt" db:"updated_at"`

	Program *Program `json:"program,omitempty"`
	Student *Student `json:"student,omitempty"`
	User    *User    `json:"user,omitempty"`
}

// Converted reports whether the application already produced a student
func (a *AdmissionApplication) Converted() bool {
	return a.StudentID != nil && *a.StudentID != ""
}
