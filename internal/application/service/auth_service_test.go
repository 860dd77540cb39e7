package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/tindahan-pos/internal/application/service"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	infraRepo "github.com/sangkips/tindahan-pos/internal/infrastructure/repository"
	"github.com/sangkips/tindahan-pos/pkg/apperror"
	"github.com/sangkips/tindahan-pos/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*service.AuthService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	return service.NewAuthService(infraRepo.NewUserRepository(env.db), jwtManager), env
}

func TestLogin(t *testing.T) {
	auth, env := newAuthService(t)
	ctx := context.Background()

	hash, err := utils.HashPassword("s3cret-pw")
	require.NoError(t, err)
	user := &entity.User{
		Name:         "Counter Cashier",
		Email:        "cashier@test.local",
		PasswordHash: hash,
		Role:         entity.RoleCashier,
	}
	require.NoError(t, env.db.Create(user).Error)

	out, err := auth.Login(ctx, &service.LoginInput{Email: "cashier@test.local", Password: "s3cret-pw"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, out.User.ID)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)

	_, err = auth.Login(ctx, &service.LoginInput{Email: "cashier@test.local", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = auth.Login(ctx, &service.LoginInput{Email: "nobody@test.local", Password: "s3cret-pw"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	auth, env := newAuthService(t)
	ctx := context.Background()

	hash, err := utils.HashPassword("s3cret-pw")
	require.NoError(t, err)
	user := &entity.User{
		Name:         "Store Manager",
		Email:        "manager@test.local",
		PasswordHash: hash,
		Role:         entity.RoleManager,
	}
	require.NoError(t, env.db.Create(user).Error)

	out, err := auth.Login(ctx, &service.LoginInput{Email: "manager@test.local", Password: "s3cret-pw"})
	require.NoError(t, err)

	refreshed, err := auth.RefreshToken(ctx, out.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = auth.RefreshToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}
