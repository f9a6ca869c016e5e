package dto

import "github.com/yigit/iams/internal/app/models"

// CreateStudentRequest creates a STUDENT user and its profile together.
// A random password is generated when Password is empty.
type CreateStudentRequest struct {
	Email             string  `json:"email" binding:"required,email"`
	FullName          string  `json:"fullName" binding:"required"`
	Password          string  `json:"password" binding:"omitempty,min=6"`
	ProgramID         string  `json:"programId" binding:"required"`
	CurrentSemesterID *string `json:"currentSemesterId"`
	EnrollmentNo      string  `json:"enrollmentNo" binding:"required"`
	BatchYear         *int    `json:"batchYear" binding:"omitempty,min=1900,max=3000"`
}

// CreateFacultyRequest creates a FACULTY user and its profile together
type CreateFacultyRequest struct {
	Email        string `json:"email" binding:"required,email"`
	FullName     string `json:"fullName" binding:"required"`
	Password     string `json:"password" binding:"omitempty,min=6"`
	DepartmentID string `json:"departmentId" binding:"required"`
	EmployeeCode string `json:"employeeCode" binding:"required"`
	Designation  string `json:"designation"`
}

// AccountResult is returned when an account is provisioned for someone else
type AccountResult struct {
	User              *models.User    `json:"user"`
	Student           *models.Student `json:"student,omitempty"`
	Faculty           *models.Faculty `json:"faculty,omitempty"`
	GeneratedPassword *string         `json:"generatedPassword"`
}
