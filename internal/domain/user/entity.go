package user

import "time"

type Role string

const (
	RoleHR       Role = "hr"       // Manages employees and all attendance
	RoleEmployee Role = "employee" // Marks and checks out own attendance
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash *string
	Role         Role
	EmployeeCode *string // nil for HR accounts
	Department   *string
	Position     *string
	Phone        *string
	Address      *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsHR checks if the user holds the HR capability
func (u *User) IsHR() bool {
	return u.Role == RoleHR
}

// IsEmployee checks if the user is a regular employee
func (u *User) IsEmployee() bool {
	return u.Role == RoleEmployee
}
