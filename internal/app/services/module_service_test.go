package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uruhongore/academy/internal/app/models/dto"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
)

func TestCreateModulesAllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.ModuleService.CreateModules(ctx, []dto.ModuleRequest{
		{Name: "Pré-lecture", IndexOrder: 1},
		{Name: "pré-lecture", IndexOrder: 2},
	})
	assert.ErrorIs(t, err, apperrors.ErrModuleNameExists)

	all, err := env.svc.ModuleService.ListAllModules(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	created, err := env.svc.ModuleService.CreateModules(ctx, []dto.ModuleRequest{
		{Name: "Pré-écriture", Category: "Langage", IndexOrder: 2},
		{Name: "Pré-lecture", Category: "Langage", IndexOrder: 1},
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)

	active, err := env.svc.ModuleService.ListActiveModules(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Pré-lecture", active[0].Name)
}

func TestUpdateModulePartial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m, err := env.svc.ModuleService.CreateModule(ctx, &dto.ModuleRequest{Name: "Chant", Category: "Arts"})
	require.NoError(t, err)
	assert.True(t, m.Active)

	inactive := false
	updated, err := env.svc.ModuleService.UpdateModule(ctx, m.ID, &dto.UpdateModuleRequest{Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Chant", updated.Name)
	assert.False(t, updated.Active)

	active, err := env.svc.ModuleService.ListActiveModules(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	empty := "  "
	_, err = env.svc.ModuleService.UpdateModule(ctx, m.ID, &dto.UpdateModuleRequest{Name: &empty})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestDeleteModule(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m, err := env.svc.ModuleService.CreateModule(ctx, &dto.ModuleRequest{Name: "Chant"})
	require.NoError(t, err)

	require.NoError(t, env.svc.ModuleService.DeleteModule(ctx, m.ID))
	_, err = env.svc.ModuleService.GetModule(ctx, m.ID)
	assert.ErrorIs(t, err, apperrors.ErrModuleNotFound)
	assert.ErrorIs(t, env.svc.ModuleService.DeleteModule(ctx, m.ID), apperrors.ErrResourceNotFound)
}
