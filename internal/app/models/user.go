package models

import "time"

// Role defines the role model based on the 'roles' table
type Role struct {
	ID          string    `json:"id" db:"id"`
	Name        RoleName  `json:"name" db:"name" example:"STUDENT"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// User defines the user model based on the 'users' table
type User struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email" example:"a@x.com"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FullName     string     `json:"fullName" db:"full_name" example:"Ada Lovelace"`
	RoleID       string     `json:"roleId" db:"role_id"`
	Status       UserStatus `json:"status" db:"status" example:"ACTIVE"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`

	Role *Role `json:"role,omitempty"` // Relation, no db tag
}

// RoleName returns the name of the populated role, or "" when it is not loaded
func (u *User) RoleName() RoleName {
	if u.Role == nil {
		return ""
	}
	return u.Role.Name
}
