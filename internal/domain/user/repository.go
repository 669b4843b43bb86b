package user

import "context"

// UserRepository stores accounts for both employees and HR users. The
// employee directory is the subset with role = employee.
type UserRepository interface {
	Create(ctx context.Context, newUser User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)

	// GetByEmployeeCode resolves a human-facing employee code to the account
	GetByEmployeeCode(ctx context.Context, employeeCode string) (User, error)

	// ListEmployees retrieves employee accounts with search and pagination
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]User, int64, error)

	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (User, error)
	Delete(ctx context.Context, id string) error
}
