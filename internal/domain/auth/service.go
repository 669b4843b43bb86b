package auth

import (
	"context"

	"github.com/attendly/attendance-backend-go/internal/domain/user"
)

type AuthService interface {
	// Register creates an employee account. The role is always
	// employee regardless of what the caller sends.
	Register(ctx context.Context, req RegisterRequest, session SessionTrackingRequest) (TokenResponse, error)

	// RegisterHR creates an HR account. Restricted to callers that
	// already hold the hr role.
	RegisterHR(ctx context.Context, req RegisterRequest, session SessionTrackingRequest) (TokenResponse, error)

	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)

	// RefreshToken exchanges a valid refresh token for a new access
	// token. The refresh token itself stays valid until logout or
	// expiry.
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)

	// Logout revokes the presented refresh token.
	Logout(ctx context.Context, req RefreshTokenRequest) error

	// Me returns the profile of the authenticated user from the
	// access token claims.
	Me(ctx context.Context) (user.EmployeeResponse, error)

	// EnsureDefaultHR seeds the configured HR account if no user with
	// that email exists yet. Called once at startup.
	EnsureDefaultHR(ctx context.Context, name, email, password string) error
}
