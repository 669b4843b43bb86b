package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendance-backend-go/internal/domain/auth"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/attendly/attendance-backend-go/internal/repository/postgresql"
)

func TestJWTRepository_Lifecycle(t *testing.T) {
	db := requireDB(t)
	truncateAll(t, db)
	userRepo := postgresql.NewUserRepository(db)
	repo := postgresql.NewJWTRepository(db)
	ctx := context.Background()

	owner := seedUser(t, userRepo, "Dita Ayu", "dita@example.com", user.RoleEmployee, strPtr("EMP-0A1B2C"))

	token := "opaque-refresh-token"
	expiresAt := time.Now().Add(24 * time.Hour).Unix()
	require.NoError(t, repo.CreateRefreshToken(ctx, owner.ID, token, expiresAt, auth.SessionTrackingRequest{
		UserAgent: "test-agent",
		IPAddress: "127.0.0.1",
	}))

	revoked, err := repo.IsRefreshTokenRevoked(ctx, token)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.RevokeRefreshToken(ctx, token))

	revoked, err = repo.IsRefreshTokenRevoked(ctx, token)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestJWTRepository_UnknownTokenCountsRevoked(t *testing.T) {
	db := requireDB(t)
	truncateAll(t, db)
	repo := postgresql.NewJWTRepository(db)

	revoked, err := repo.IsRefreshTokenRevoked(context.Background(), "never-issued")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestJWTRepository_ExpiredTokenCountsRevoked(t *testing.T) {
	db := requireDB(t)
	truncateAll(t, db)
	userRepo := postgresql.NewUserRepository(db)
	repo := postgresql.NewJWTRepository(db)
	ctx := context.Background()

	owner := seedUser(t, userRepo, "Dita Ayu", "dita@example.com", user.RoleEmployee, strPtr("EMP-0A1B2C"))

	token := "already-expired"
	expiresAt := time.Now().Add(-time.Hour).Unix()
	require.NoError(t, repo.CreateRefreshToken(ctx, owner.ID, token, expiresAt, auth.SessionTrackingRequest{}))

	revoked, err := repo.IsRefreshTokenRevoked(ctx, token)
	require.NoError(t, err)
	assert.True(t, revoked)

	// Only the stored hash is queryable; the raw token never matches a row.
	revoked, err = repo.IsRefreshTokenRevoked(ctx, "different-token")
	require.NoError(t, err)
	assert.True(t, revoked)
}
