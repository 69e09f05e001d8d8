package models

import (
	"time"
)

// Role is the access role of a user.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
)

// User is an employee or manager account.
type User struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	EmployeeID   string    `gorm:"uniqueIndex;not null" json:"employeeId"`
	Department   string    `json:"department"`
	Role         Role      `gorm:"type:varchar(16);not null;default:employee;index" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsManager reports whether the user has the manager role.
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// RegisterRequest is the request body for POST /auth/register
type RegisterRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=255"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6,max=72"`
	EmployeeID string `json:"employeeId" binding:"required,max=64"`
	Department string `json:"department" binding:"max=128"`
	Role       Role   `json:"role" binding:"omitempty,oneof=employee manager"`
}

// LoginRequest is the request body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
