package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/app/repositories/inmem"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
	"github.com/uruhongore/academy/internal/pkg/auth"
)

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	ctx := context.Background()
	users := inmem.New().Users()
	head := HeadAccount{Phone: "0788000000", Password: "Director2025", Email: "Head@School.rw"}

	require.NoError(t, CreateDefaultData(ctx, users, head, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(ctx, users, head, zerolog.Nop()))

	all, err := users.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)

	u := all[0]
	assert.Equal(t, []models.RoleType{models.RoleHead}, u.Roles)
	assert.Equal(t, "School Head", u.FullName)
	require.NotNil(t, u.Email)
	assert.Equal(t, "head@school.rw", *u.Email)
	assert.True(t, auth.CheckPassword(u.Password, "Director2025"))
}

func TestCreateDefaultDataSkipsWithoutPhone(t *testing.T) {
	users := inmem.New().Users()
	require.NoError(t, CreateDefaultData(context.Background(), users, HeadAccount{}, zerolog.Nop()))

	all, err := users.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateDefaultDataRejectsWeakPassword(t *testing.T) {
	users := inmem.New().Users()
	err := CreateDefaultData(context.Background(), users, HeadAccount{Phone: "0788000000", Password: "short"}, zerolog.Nop())
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
