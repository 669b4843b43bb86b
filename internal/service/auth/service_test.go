package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/attendly/attendance-backend-go/internal/domain/auth"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/attendly/attendance-backend-go/internal/pkg/jwt"
)

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
	return user.User{}, user.ErrEmployeeNotFound
}

func (f *fakeUserRepo) ListEmployees(ctx context.Context, filter user.EmployeeFilter) ([]user.User, int64, error) {
	return nil, 0, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, id string, req user.UpdateEmployeeRequest) (user.User, error) {
	return user.User{}, user.ErrEmployeeNotFound
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	return user.ErrEmployeeNotFound
}

// fakeJWTRepo tracks issued and revoked refresh tokens in memory.
type fakeJWTRepo struct {
	mu      sync.Mutex
	issued  map[string]bool
	revoked map[string]bool
}

func newFakeJWTRepo() *fakeJWTRepo {
	return &fakeJWTRepo{issued: make(map[string]bool), revoked: make(map[string]bool)}
}

func (f *fakeJWTRepo) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued[token] = true
	return nil
}

func (f *fakeJWTRepo) IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.issued[token] {
		return true, nil
	}
	return f.revoked[token], nil
}

func (f *fakeJWTRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[token] = true
	return nil
}

func newTestService(repo *fakeUserRepo, jwtRepo *fakeJWTRepo) (auth.AuthService, jwt.Service) {
	jwtService := jwt.NewJWTService("auth-test-secret", "1h", "168h")
	return NewAuthService(nil, repo, jwtService, jwtRepo), jwtService
}

func hashOf(t *testing.T, password string) *string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	s := string(hash)
	return &s
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newTestService(newFakeUserRepo(), newFakeJWTRepo())

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "ghost@example.com", Password: "whatever"}, auth.SessionTrackingRequest{})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo(user.User{
		ID: "emp-1", Email: "dita@example.com", PasswordHash: hashOf(t, "correct"), Role: user.RoleEmployee, IsActive: true,
	})
	svc, _ := newTestService(repo, newFakeJWTRepo())

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "dita@example.com", Password: "wrong!"}, auth.SessionTrackingRequest{})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_NoPasswordHash(t *testing.T) {
	repo := newFakeUserRepo(user.User{
		ID: "emp-1", Email: "dita@example.com", Role: user.RoleEmployee, IsActive: true,
	})
	svc, _ := newTestService(repo, newFakeJWTRepo())

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "dita@example.com", Password: "anything"}, auth.SessionTrackingRequest{})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_InactiveAccount(t *testing.T) {
	repo := newFakeUserRepo(user.User{
		ID: "emp-1", Email: "dita@example.com", PasswordHash: hashOf(t, "sup3rsecret"), Role: user.RoleEmployee, IsActive: false,
	})
	svc, _ := newTestService(repo, newFakeJWTRepo())

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "dita@example.com", Password: "sup3rsecret"}, auth.SessionTrackingRequest{})

	assert.ErrorIs(t, err, auth.ErrAccountInactive)
}

func TestRefreshToken_IssuesNewAccessToken(t *testing.T) {
	repo := newFakeUserRepo(user.User{
		ID: "emp-1", Email: "dita@example.com", Role: user.RoleEmployee, IsActive: true,
	})
	jwtRepo := newFakeJWTRepo()
	svc, jwtService := newTestService(repo, jwtRepo)

	refresh, expiresAt, err := jwtService.GenerateRefreshToken("emp-1")
	require.NoError(t, err)
	require.NoError(t, jwtRepo.CreateRefreshToken(context.Background(), "emp-1", refresh, expiresAt, auth.SessionTrackingRequest{}))

	result, err := svc.RefreshToken(context.Background(), auth.RefreshTokenRequest{RefreshToken: refresh})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Greater(t, result.AccessTokenExpiresIn, int64(0))
}

func TestRefreshToken_UnknownToken(t *testing.T) {
	repo := newFakeUserRepo(user.User{ID: "emp-1", Email: "dita@example.com", Role: user.RoleEmployee, IsActive: true})
	svc, jwtService := newTestService(repo, newFakeJWTRepo())

	// Structurally valid but never stored, so it counts as revoked.
	refresh, _, err := jwtService.GenerateRefreshToken("emp-1")
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), auth.RefreshTokenRequest{RefreshToken: refresh})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestRefreshToken_GarbageToken(t *testing.T) {
	svc, _ := newTestService(newFakeUserRepo(), newFakeJWTRepo())

	_, err := svc.RefreshToken(context.Background(), auth.RefreshTokenRequest{RefreshToken: "not-a-jwt"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefreshToken_AccessTokenRejected(t *testing.T) {
	repo := newFakeUserRepo(user.User{ID: "emp-1", Email: "dita@example.com", Role: user.RoleEmployee, IsActive: true})
	svc, jwtService := newTestService(repo, newFakeJWTRepo())

	access, _, err := jwtService.GenerateAccessToken("emp-1", "dita@example.com", nil, user.RoleEmployee)
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), auth.RefreshTokenRequest{RefreshToken: access})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefreshToken_InactiveAccount(t *testing.T) {
	repo := newFakeUserRepo(user.User{ID: "emp-1", Email: "dita@example.com", Role: user.RoleEmployee, IsActive: false})
	jwtRepo := newFakeJWTRepo()
	svc, jwtService := newTestService(repo, jwtRepo)

	refresh, expiresAt, err := jwtService.GenerateRefreshToken("emp-1")
	require.NoError(t, err)
	require.NoError(t, jwtRepo.CreateRefreshToken(context.Background(), "emp-1", refresh, expiresAt, auth.SessionTrackingRequest{}))

	_, err = svc.RefreshToken(context.Background(), auth.RefreshTokenRequest{RefreshToken: refresh})
	assert.ErrorIs(t, err, auth.ErrAccountInactive)
}

func TestMe(t *testing.T) {
	code := "EMP-0A1B2C"
	repo := newFakeUserRepo(user.User{
		ID: "emp-1", Name: "Dita Ayu", Email: "dita@example.com", Role: user.RoleEmployee, EmployeeCode: &code, IsActive: true,
	})
	svc, _ := newTestService(repo, newFakeJWTRepo())

	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{"user_id": "emp-1", "role": "employee", "type": "access"})
	require.NoError(t, err)
	ctx := jwtauth.NewContext(context.Background(), token, nil)

	profile, err := svc.Me(ctx)

	require.NoError(t, err)
	assert.Equal(t, "Dita Ayu", profile.Name)
	assert.Equal(t, "EMP-0A1B2C", profile.EmployeeCode)
	assert.Equal(t, "employee", profile.Role)
}

func TestMe_NoClaims(t *testing.T) {
	svc, _ := newTestService(newFakeUserRepo(), newFakeJWTRepo())

	_, err := svc.Me(context.Background())
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestEnsureDefaultHR_CreatesAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestService(repo, newFakeJWTRepo())

	err := svc.EnsureDefaultHR(context.Background(), "HR Admin", "hr@example.com", "sup3rsecret")
	require.NoError(t, err)

	created, err := repo.GetByEmail(context.Background(), "hr@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.RoleHR, created.Role)
	assert.True(t, created.IsActive)
	require.NotNil(t, created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*created.PasswordHash), []byte("sup3rsecret")))
}

func TestEnsureDefaultHR_Idempotent(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestService(repo, newFakeJWTRepo())

	require.NoError(t, svc.EnsureDefaultHR(context.Background(), "HR Admin", "hr@example.com", "sup3rsecret"))
	require.NoError(t, svc.EnsureDefaultHR(context.Background(), "HR Admin", "hr@example.com", "sup3rsecret"))

	assert.Len(t, repo.users, 1)
}

func TestEnsureDefaultHR_SkippedWithoutConfig(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestService(repo, newFakeJWTRepo())

	require.NoError(t, svc.EnsureDefaultHR(context.Background(), "HR Admin", "", ""))
	assert.Empty(t, repo.users)
}
