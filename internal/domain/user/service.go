package user

import "context"

type EmployeeService interface {
	// CreateEmployee provisions an employee account with a generated
	// employee code. HR only.
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeesResponse, error)

	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee removes an employee record. HR accounts cannot
	// delete themselves.
	DeleteEmployee(ctx context.Context, id string) error
}
