package dto

import (
	"time"

	"github.com/yigit/iams/internal/app/models"
)

// SubmitAdmissionRequest is the public application form
type SubmitAdmissionRequest struct {
	FullName              string     `json:"fullName" binding:"required"`
	Email                 string     `json:"email" binding:"required,email"`
	Phone                 string     `json:"phone"`
	DateOfBirth           *time.Time `json:"dateOfBirth"`
	ProgramID             string     `json:"programId" binding:"required"`
	PreviousQualification string     `json:"previousQualification"`
}

type UpdateAdmissionRequest struct {
	Status  *string `json:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Remarks *string `json:"remarks"`
}

type ConvertAdmissionRequest struct {
	EnrollmentNo string `json:"enrollmentNo"`
}

// ConversionResult is the outcome of turning an application into a student
type ConversionResult struct {
	Application       *models.AdmissionApplication `json:"application"`
	Student           *models.Student              `json:"student"`
	User              *models.User                 `json:"user"`
	GeneratedPassword *string                      `json:"generatedPassword"`
	// Created is true when a user or student was inserted
	Created bool `json:"-"`
}
