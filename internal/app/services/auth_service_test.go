package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/app/models/dto"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
)

func registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		FullName: "Jean Habimana",
		Gender:   "male",
		Email:    "Jean@Example.com",
		Phone:    "0781234567",
		Password: "secret123",
		Role:     "parent",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.svc.AuthService.Register(ctx, registerRequest())
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.Equal(t, []models.RoleType{models.RoleParents}, resp.User.Roles)
	assert.Equal(t, "jean@example.com", resp.User.Email)

	login, err := env.svc.AuthService.Login(ctx, &dto.LoginRequest{Phone: "0781234567", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.svc.AuthService.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = env.svc.AuthService.Register(ctx, registerRequest())
	assert.ErrorIs(t, err, apperrors.ErrPhoneAlreadyExists)

	req := registerRequest()
	req.Phone = "0787654321"
	_, err = env.svc.AuthService.Register(ctx, req)
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	weak := registerRequest()
	weak.Password = "password"
	_, err := env.svc.AuthService.Register(context.Background(), weak)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	badRole := registerRequest()
	badRole.Role = "janitor"
	_, err = env.svc.AuthService.Register(context.Background(), badRole)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	resp, err := env.svc.AuthService.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = env.svc.AuthService.Login(ctx, &dto.LoginRequest{Phone: "0781234567", Password: "wrong1234"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = env.svc.AuthService.Login(ctx, &dto.LoginRequest{Phone: "0700000000", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	users, err := env.svc.UserService.ListUsers(ctx, nil)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, resp.User.ID, users[0].ID)
}
