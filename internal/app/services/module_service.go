package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/app/models/dto"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
	"github.com/uruhongore/academy/internal/pkg/validation"
)

// ModuleService manages the subjects students are enrolled in and graded on
type ModuleService interface {
	CreateModule(ctx context.Context, req *dto.ModuleRequest) (*models.Module, error)
	CreateModules(ctx context.Context, reqs []dto.ModuleRequest) ([]*models.Module, error)
	GetModule(ctx context.Context, id uuid.UUID) (*models.Module, error)
	GetModuleByName(ctx context.Context, name string) (*models.Module, error)
	ListActiveModules(ctx context.Context) ([]*models.Module, error)
	ListAllModules(ctx context.Context) ([]*models.Module, error)
	UpdateModule(ctx context.Context, id uuid.UUID, req *dto.UpdateModuleRequest) (*models.Module, error)
	DeleteModule(ctx context.Context, id uuid.UUID) error
}

type moduleServiceImpl struct {
	moduleRepo ModuleStore
	logger     zerolog.Logger
}

// NewModuleService creates a new ModuleService
func NewModuleService(moduleRepo ModuleStore, logger zerolog.Logger) ModuleService {
	return &moduleServiceImpl{moduleRepo: moduleRepo, logger: logger}
}

func validateModule(m *models.Module) error {
	m.Name = strings.TrimSpace(m.Name)
	m.Category = strings.TrimSpace(m.Category)
	return validation.All(
		validation.NewStringValidation("name", m.Name).WithMaxLength(validation.NameMaxLength),
		validation.NewNumericValidation("indexOrder", m.IndexOrder).WithMin(0),
	)
}

func (s *moduleServiceImpl) CreateModule(ctx context.Context, req *dto.ModuleRequest) (*models.Module, error) {
	module := req.ToModel()
	if err := validateModule(module); err != nil {
		return nil, err
	}
	if err := s.moduleRepo.Create(ctx, module); err != nil {
		return nil, err
	}
	s.logger.Info().Str("moduleID", module.ID.String()).Str("name", module.Name).Msg("Module created")
	return module, nil
}

// CreateModules creates every module or none
func (s *moduleServiceImpl) CreateModules(ctx context.Context, reqs []dto.ModuleRequest) ([]*models.Module, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: at least one module is required", apperrors.ErrValidationFailed)
	}

	modules := make([]*models.Module, 0, len(reqs))
	seen := make(map[string]bool, len(reqs))
	for i := range reqs {
		m := reqs[i].ToModel()
		if err := validateModule(m); err != nil {
			return nil, fmt.Errorf("module %d: %w", i+1, err)
		}
		key := strings.ToLower(m.Name)
		if seen[key] {
			return nil, fmt.Errorf("%w: %s appears twice in the request", apperrors.ErrModuleNameExists, m.Name)
		}
		seen[key] = true
		modules = append(modules, m)
	}

	if err := s.moduleRepo.CreateBulk(ctx, modules); err != nil {
		return nil, err
	}
	s.logger.Info().Int("count", len(modules)).Msg("Modules created")
	return modules, nil
}

func (s *moduleServiceImpl) GetModule(ctx context.Context, id uuid.UUID) (*models.Module, error) {
	return s.moduleRepo.GetByID(ctx, id)
}

func (s *moduleServiceImpl) GetModuleByName(ctx context.Context, name string) (*models.Module, error) {
	return s.moduleRepo.GetByName(ctx, strings.TrimSpace(name))
}

func (s *moduleServiceImpl) ListActiveModules(ctx context.Context) ([]*models.Module, error) {
	return s.moduleRepo.ListActive(ctx)
}

func (s *moduleServiceImpl) ListAllModules(ctx context.Context) ([]*models.Module, error) {
	return s.moduleRepo.ListAll(ctx)
}

func (s *moduleServiceImpl) UpdateModule(ctx context.Context, id uuid.UUID, req *dto.UpdateModuleRequest) (*models.Module, error) {
	module, err := s.moduleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		module.Name = *req.Name
	}
	if req.Category != nil {
		module.Category = *req.Category
	}
	if req.Active != nil {
		module.Active = *req.Active
	}
	if req.IndexOrder != nil {
		module.IndexOrder = *req.IndexOrder
	}
	if err := validateModule(module); err != nil {
		return nil, err
	}

	if err := s.moduleRepo.Update(ctx, module); err != nil {
		return nil, err
	}
	s.logger.Info().Str("moduleID", id.String()).Msg("Module updated")
	return module, nil
}

// DeleteModule removes a module; its reports and enrollments go with it
func (s *moduleServiceImpl) DeleteModule(ctx context.Context, id uuid.UUID) error {
	if err := s.moduleRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("moduleID", id.String()).Msg("Module deleted")
	return nil
}
