package employee

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendance-backend-go/internal/domain/user"
)

// fakeUserRepo enforces the same unique email and employee code
// constraints as the users table.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[string]user.User
}

func newFakeUserRepo(users ...user.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]user.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) Create(ctx context.Context, newUser user.User) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Email == newUser.Email {
			return user.User{}, user.ErrEmailExists
		}
		if existing.EmployeeCode != nil && newUser.EmployeeCode != nil &&
			*existing.EmployeeCode == *newUser.EmployeeCode {
			return user.User{}, user.ErrEmailExists
		}
	}

	f.nextID++
	newUser.ID = fmt.Sprintf("user-%d", f.nextID)
	f.users[newUser.ID] = newUser
	return newUser, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrEmployeeNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrEmployeeNotFound
}

func (f *fakeUserRepo) GetByEmployeeCode(ctx context.Context, employeeCode string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.EmployeeCode != nil && *u.EmployeeCode == employeeCode {
			return u, nil
		}
	}
	return user.User{}, user.ErrEmployeeNotFound
}

func (f *fakeUserRepo) ListEmployees(ctx context.Context, filter user.EmployeeFilter) ([]user.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var employees []user.User
	for _, u := range f.users {
		if u.Role != user.RoleEmployee {
			continue
		}
		employees = append(employees, u)
	}

	total := int64(len(employees))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(employees) {
		return nil, total, nil
	}
	end := start + filter.Limit
	if end > len(employees) {
		end = len(employees)
	}
	return employees[start:end], total, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, id string, req user.UpdateEmployeeRequest) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrEmployeeNotFound
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Department != nil {
		u.Department = req.Department
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	f.users[id] = u
	return u, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return user.ErrEmployeeNotFound
	}
	delete(f.users, id)
	return nil
}

var testTokenAuth = jwtauth.New("HS256", []byte("test-secret"), nil)

func authedContext(t *testing.T, userID, role string) context.Context {
	t.Helper()
	token, _, err := testTokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"role":    role,
		"type":    "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func newTestService(repo *fakeUserRepo) user.EmployeeService {
	return NewEmployeeService(repo)
}

func validCreateRequest() user.CreateEmployeeRequest {
	return user.CreateEmployeeRequest{
		Name:       "Dita Ayu",
		Email:      "dita@example.com",
		Password:   "sup3rsecret",
		Department: "Engineering",
		Position:   "Backend Engineer",
	}
}

func TestCreateEmployee(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	created, err := svc.CreateEmployee(authedContext(t, "hr-1", "hr"), validCreateRequest())

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Dita Ayu", created.Name)
	assert.Equal(t, "employee", created.Role)
	assert.Regexp(t, `^EMP-[0-9A-F]{6}$`, created.EmployeeCode)

	// The stored hash is bcrypt, never the raw password.
	stored, err := repo.GetByEmail(context.Background(), "dita@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordHash)
	assert.NotEqual(t, "sup3rsecret", *stored.PasswordHash)
	assert.True(t, stored.IsActive)
}

func TestCreateEmployee_RequiresHR(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.CreateEmployee(authedContext(t, "emp-1", "employee"), validCreateRequest())
	assert.ErrorIs(t, err, user.ErrHRAccessRequired)

	_, err = svc.CreateEmployee(context.Background(), validCreateRequest())
	assert.ErrorIs(t, err, user.ErrHRAccessRequired)
}

func TestCreateEmployee_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	ctx := authedContext(t, "hr-1", "hr")

	_, err := svc.CreateEmployee(ctx, validCreateRequest())
	require.NoError(t, err)

	req := validCreateRequest()
	req.Name = "Other Person"
	_, err = svc.CreateEmployee(ctx, req)
	assert.ErrorIs(t, err, user.ErrEmailExists)
}

func TestCreateEmployee_InvalidRequest(t *testing.T) {
	svc := newTestService(newFakeUserRepo())
	ctx := authedContext(t, "hr-1", "hr")

	req := validCreateRequest()
	req.Email = "not-an-email"
	_, err := svc.CreateEmployee(ctx, req)
	assert.Error(t, err)
}

func TestGetEmployee(t *testing.T) {
	code := "EMP-0A1B2C"
	repo := newFakeUserRepo(user.User{ID: "emp-1", Name: "Dita Ayu", Email: "dita@example.com", Role: user.RoleEmployee, EmployeeCode: &code, IsActive: true})
	svc := newTestService(repo)

	found, err := svc.GetEmployee(authedContext(t, "hr-1", "hr"), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "Dita Ayu", found.Name)
	assert.Equal(t, "EMP-0A1B2C", found.EmployeeCode)

	_, err = svc.GetEmployee(authedContext(t, "hr-1", "hr"), "missing")
	assert.ErrorIs(t, err, user.ErrEmployeeNotFound)
}

func TestListEmployees(t *testing.T) {
	repo := newFakeUserRepo(
		user.User{ID: "emp-1", Name: "Dita Ayu", Email: "dita@example.com", Role: user.RoleEmployee, IsActive: true},
		user.User{ID: "emp-2", Name: "Bagus Putra", Email: "bagus@example.com", Role: user.RoleEmployee, IsActive: true},
		user.User{ID: "hr-1", Name: "HR Admin", Email: "hr@example.com", Role: user.RoleHR, IsActive: true},
	)
	svc := newTestService(repo)

	result, err := svc.ListEmployees(authedContext(t, "hr-1", "hr"), user.EmployeeFilter{})

	require.NoError(t, err)
	// HR accounts are not employees and stay out of the listing.
	assert.Equal(t, int64(2), result.TotalCount)
	assert.Equal(t, 1, result.CurrentPage)
	assert.Equal(t, 1, result.TotalPages)
	assert.Len(t, result.Employees, 2)
}

func TestListEmployees_RequiresHR(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.ListEmployees(authedContext(t, "emp-1", "employee"), user.EmployeeFilter{})
	assert.ErrorIs(t, err, user.ErrHRAccessRequired)
}

func TestUpdateEmployee(t *testing.T) {
	repo := newFakeUserRepo(user.User{ID: "emp-1", Name: "Dita Ayu", Email: "dita@example.com", Role: user.RoleEmployee, IsActive: true})
	svc := newTestService(repo)

	name := "Dita Ayu Lestari"
	inactive := false
	updated, err := svc.UpdateEmployee(authedContext(t, "hr-1", "hr"), user.UpdateEmployeeRequest{
		ID:       "emp-1",
		Name:     &name,
		IsActive: &inactive,
	})

	require.NoError(t, err)
	assert.Equal(t, "Dita Ayu Lestari", updated.Name)
	assert.False(t, updated.IsActive)
}

func TestUpdateEmployee_NotFound(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	name := "Anyone"
	_, err := svc.UpdateEmployee(authedContext(t, "hr-1", "hr"), user.UpdateEmployeeRequest{ID: "missing", Name: &name})
	assert.ErrorIs(t, err, user.ErrEmployeeNotFound)
}

func TestDeleteEmployee(t *testing.T) {
	repo := newFakeUserRepo(user.User{ID: "emp-1", Name: "Dita Ayu", Email: "dita@example.com", Role: user.RoleEmployee, IsActive: true})
	svc := newTestService(repo)

	require.NoError(t, svc.DeleteEmployee(authedContext(t, "hr-1", "hr"), "emp-1"))

	_, err := repo.GetByID(context.Background(), "emp-1")
	assert.ErrorIs(t, err, user.ErrEmployeeNotFound)
}

func TestDeleteEmployee_Self(t *testing.T) {
	repo := newFakeUserRepo(user.User{ID: "hr-1", Name: "HR Admin", Email: "hr@example.com", Role: user.RoleHR, IsActive: true})
	svc := newTestService(repo)

	err := svc.DeleteEmployee(authedContext(t, "hr-1", "hr"), "hr-1")
	assert.ErrorIs(t, err, user.ErrCannotDeleteSelf)

	// The account is still there.
	_, err = repo.GetByID(context.Background(), "hr-1")
	assert.NoError(t, err)
}
