package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewEmployeeCode generates a human-facing employee code of the form
// EMP-3F07A1. Uniqueness is enforced by the users table; collisions are
// retried by the caller.
func NewEmployeeCode() string {
	id := uuid.New()
	return fmt.Sprintf("EMP-%s", strings.ToUpper(id.String()[:6]))
}

// NewEmployeeResponse maps an account to its API representation.
func NewEmployeeResponse(u User) EmployeeResponse {
	code := ""
	if u.EmployeeCode != nil {
		code = *u.EmployeeCode
	}
	return EmployeeResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         string(u.Role),
		EmployeeCode: code,
		Department:   u.Department,
		Position:     u.Position,
		Phone:        u.Phone,
		Address:      u.Address,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt.Format(time.RFC3339),
	}
}
