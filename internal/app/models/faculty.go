package models

import "time"

// Faculty is a teaching staff profile attached to a user
type Faculty struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"userId" db:"user_id"`
	DepartmentID string    `json:"departmentId" db:"department_id"`
	EmployeeCode string    `json:"employeeCode" db:"employee_code" example:"FAC-001"`
	Designation  string    `json:"designation" db:"designation" example:"Assistant Professor"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	User       *User       `json:"user,omitempty"`       // Relation, no db tag
	Department *Department `json:"department,omitempty"` // Relation, no db tag
}
