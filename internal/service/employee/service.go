package employee

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/attendly/attendance-backend-go/internal/domain/user"
)

// employeeCodeAttempts bounds retries when a generated code collides
// with an existing one.
const employeeCodeAttempts = 3

type EmployeeServiceImpl struct {
	user.UserRepository
}

func NewEmployeeService(userRepository user.UserRepository) user.EmployeeService {
	return &EmployeeServiceImpl{
		UserRepository: userRepository,
	}
}

func requireHR(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", user.ErrHRAccessRequired
	}
	role, _ := claims["role"].(string)
	if role != string(user.RoleHR) {
		return "", user.ErrHRAccessRequired
	}
	callerID, _ := claims["user_id"].(string)
	return callerID, nil
}

// CreateEmployee implements user.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req user.CreateEmployeeRequest) (user.EmployeeResponse, error) {
	if _, err := requireHR(ctx); err != nil {
		return user.EmployeeResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return user.EmployeeResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	passwordHash := string(hash)

	newUser := user.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: &passwordHash,
		Role:         user.RoleEmployee,
		Department:   &req.Department,
		Position:     &req.Position,
		Phone:        req.Phone,
		Address:      req.Address,
		IsActive:     true,
	}

	var created user.User
	for attempt := 0; attempt < employeeCodeAttempts; attempt++ {
		code := user.NewEmployeeCode()
		newUser.EmployeeCode = &code

		created, err = s.UserRepository.Create(ctx, newUser)
		if err == nil {
			return user.NewEmployeeResponse(created), nil
		}
		if !errors.Is(err, user.ErrEmailExists) {
			return user.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
		}

		// The unique violation may be the email or, rarely, a code
		// collision. Re-check the email to tell them apart.
		if _, lookupErr := s.UserRepository.GetByEmail(ctx, req.Email); lookupErr == nil {
			return user.EmployeeResponse{}, user.ErrEmailExists
		}
	}

	return user.EmployeeResponse{}, fmt.Errorf("failed to allocate an employee code: %w", err)
}

// GetEmployee implements user.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (user.EmployeeResponse, error) {
	if _, err := requireHR(ctx); err != nil {
		return user.EmployeeResponse{}, err
	}

	found, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.EmployeeResponse{}, err
	}

	return user.NewEmployeeResponse(found), nil
}

// ListEmployees implements user.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter user.EmployeeFilter) (user.ListEmployeesResponse, error) {
	if _, err := requireHR(ctx); err != nil {
		return user.ListEmployeesResponse{}, err
	}

	if err := filter.Validate(); err != nil {
		return user.ListEmployeesResponse{}, err
	}

	employees, total, err := s.UserRepository.ListEmployees(ctx, filter)
	if err != nil {
		return user.ListEmployeesResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]user.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, user.NewEmployeeResponse(e))
	}

	return user.ListEmployeesResponse{
		TotalCount:  total,
		CurrentPage: filter.Page,
		TotalPages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
		Employees:   responses,
	}, nil
}

// UpdateEmployee implements user.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req user.UpdateEmployeeRequest) (user.EmployeeResponse, error) {
	if _, err := requireHR(ctx); err != nil {
		return user.EmployeeResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return user.EmployeeResponse{}, err
	}

	updated, err := s.UserRepository.Update(ctx, req.ID, req)
	if err != nil {
		return user.EmployeeResponse{}, err
	}

	return user.NewEmployeeResponse(updated), nil
}

// DeleteEmployee implements user.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	callerID, err := requireHR(ctx)
	if err != nil {
		return err
	}
	if callerID == id {
		return user.ErrCannotDeleteSelf
	}

	return s.UserRepository.Delete(ctx, id)
}
