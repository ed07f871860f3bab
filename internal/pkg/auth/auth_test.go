package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uruhongore/academy/internal/app/models"
)

func newTestService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: exp, TokenIssuer: "test"})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestService(time.Hour)
	user := &models.User{ID: uuid.New(), Phone: "0781234567", Roles: []models.RoleType{models.RoleTeacher}}

	token, expiresIn, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.Equal(t, int64(3600), expiresIn)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.True(t, claims.HasRole(models.RoleTeacher))
	assert.False(t, claims.HasRole(models.RoleHead))
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := newTestService(-time.Minute)
	token, _, err := svc.GenerateAccessToken(&models.User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	token, _, err := newTestService(time.Hour).GenerateAccessToken(&models.User{ID: uuid.New()})
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestPasswordHelpers(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "secret124"))

	assert.True(t, IsStrongPassword("abcdefg1"))
	assert.False(t, IsStrongPassword("abcdefgh"))
	assert.False(t, IsStrongPassword("12345678"))
	assert.False(t, IsStrongPassword("abc1"))
}
