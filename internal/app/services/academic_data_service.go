package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/app/models/dto"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
	"github.com/uruhongore/academy/internal/pkg/websocket"
)

// AcademicDataService manages academic periods and their publication state
type AcademicDataService interface {
	GetOrCreate(ctx context.Context, t models.Trimester, year int, p models.Period) (*models.AcademicData, error)
	Create(ctx context.Context, req *dto.AcademicDataRequest) (*models.AcademicData, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.AcademicDataRequest) (*models.AcademicData, error)
	Get(ctx context.Context, id uuid.UUID) (*models.AcademicData, error)
	GetAll(ctx context.Context) ([]*models.AcademicData, error)
	GetAllPublished(ctx context.Context) ([]*models.AcademicData, error)
	Publish(ctx context.Context, id uuid.UUID) (*models.AcademicData, error)
	Unpublish(ctx context.Context, id uuid.UUID) (*models.AcademicData, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type academicDataServiceImpl struct {
	academicDataRepo AcademicDataStore
	events           EventPublisher
	logger           zerolog.Logger
}

// NewAcademicDataService creates a new AcademicDataService. events may be nil.
func NewAcademicDataService(academicDataRepo AcademicDataStore, events EventPublisher, logger zerolog.Logger) AcademicDataService {
	return &academicDataServiceImpl{
		academicDataRepo: academicDataRepo,
		events:           events,
		logger:           logger,
	}
}

// ParseAcademicDataRequest converts a request into an unsaved, validated AcademicData
func ParseAcademicDataRequest(req *dto.AcademicDataRequest) (*models.AcademicData, error) {
	t, err := models.ParseTrimester(req.Trimester)
	if err != nil {
		return nil, err
	}
	p, err := models.ParsePeriod(req.Period)
	if err != nil {
		return nil, err
	}
	a := &models.AcademicData{Trimester: t, AcademicYear: req.AcademicYear, Period: p}
	if req.Published != nil {
		a.Published = *req.Published
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *academicDataServiceImpl) publish(eventType string, a *models.AcademicData, staffOnly bool) {
	if s.events == nil {
		return
	}
	snapshot := *a
	s.events.Publish(&websocket.Event{Type: eventType, AcademicData: &snapshot, StaffOnly: staffOnly})
}

// GetOrCreate returns the row for the triple, creating it unpublished when missing
func (s *academicDataServiceImpl) GetOrCreate(ctx context.Context, t models.Trimester, year int, p models.Period) (*models.AcademicData, error) {
	candidate := &models.AcademicData{Trimester: t, AcademicYear: year, Period: p}
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.academicDataRepo.FindBySlot(ctx, t, year, p)
	if err == nil {
		s.logger.Debug().Str("academicDataId", existing.ID.String()).Msg("Found existing academic data")
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, err
	}

	if err := s.academicDataRepo.Create(ctx, candidate); err != nil {
		// Lost a race with a concurrent creator
		if errors.Is(err, apperrors.ErrAcademicDataExists) {
			return s.academicDataRepo.FindBySlot(ctx, t, year, p)
		}
		return nil, err
	}

	s.logger.Info().
		Str("academicDataId", candidate.ID.String()).
		Str("trimester", string(t)).
		Int("academicYear", year).
		Str("period", string(p)).
		Msg("Created academic data")
	s.publish(websocket.EventAcademicDataCreated, candidate, true)
	return candidate, nil
}

// Create fails with a conflict when the triple already exists
func (s *academicDataServiceImpl) Create(ctx context.Context, req *dto.AcademicDataRequest) (*models.AcademicData, error) {
	a, err := ParseAcademicDataRequest(req)
	if err != nil {
		return nil, err
	}

	if _, err := s.academicDataRepo.FindBySlot(ctx, a.Trimester, a.AcademicYear, a.Period); err == nil {
		return nil, apperrors.ErrAcademicDataExists
	} else if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, err
	}

	if err := s.academicDataRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info().Str("academicDataId", a.ID.String()).Msg("Created academic data")
	s.publish(websocket.EventAcademicDataCreated, a, !a.Published)
	return a, nil
}

// Update changes the triple and, when supplied, the published flag. Moving onto another row's
// triple is a conflict.
func (s *academicDataServiceImpl) Update(ctx context.Context, id uuid.UUID, req *dto.AcademicDataRequest) (*models.AcademicData, error) {
	current, err := s.academicDataRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := ParseAcademicDataRequest(req)
	if err != nil {
		return nil, err
	}

	if !current.SameSlot(next) {
		other, err := s.academicDataRepo.FindBySlot(ctx, next.Trimester, next.AcademicYear, next.Period)
		if err == nil && other.ID != id {
			return nil, fmt.Errorf("%w: %s %d %s", apperrors.ErrAcademicDataExists, next.Trimester, next.AcademicYear, next.Period)
		}
		if err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, err
		}
	}

	current.Trimester = next.Trimester
	current.AcademicYear = next.AcademicYear
	current.Period = next.Period
	if req.Published != nil {
		current.Published = *req.Published
	}
	if err := s.academicDataRepo.Update(ctx, current); err != nil {
		return nil, err
	}
	s.logger.Info().Str("academicDataId", id.String()).Msg("Updated academic data")
	s.publish(websocket.EventAcademicDataUpdated, current, !current.Published)
	return current, nil
}

func (s *academicDataServiceImpl) Get(ctx context.Context, id uuid.UUID) (*models.AcademicData, error) {
	return s.academicDataRepo.GetByID(ctx, id)
}

// GetAll returns every row, newest first
func (s *academicDataServiceImpl) GetAll(ctx context.Context) ([]*models.AcademicData, error) {
	return s.academicDataRepo.List(ctx)
}

// GetAllPublished returns published rows ordered by year desc, trimester, period
func (s *academicDataServiceImpl) GetAllPublished(ctx context.Context) ([]*models.AcademicData, error) {
	return s.academicDataRepo.ListPublished(ctx)
}

func (s *academicDataServiceImpl) setPublished(ctx context.Context, id uuid.UUID, published bool) (*models.AcademicData, error) {
	a, err := s.academicDataRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Published = published
	if err := s.academicDataRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Publish makes the period's reports visible to parents. Publishing twice is harmless.
func (s *academicDataServiceImpl) Publish(ctx context.Context, id uuid.UUID) (*models.AcademicData, error) {
	a, err := s.setPublished(ctx, id, true)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("academicDataId", id.String()).Msg("Academic data published")
	s.publish(websocket.EventAcademicDataPublished, a, false)
	return a, nil
}

// Unpublish hides the period's reports from parents again
func (s *academicDataServiceImpl) Unpublish(ctx context.Context, id uuid.UUID) (*models.AcademicData, error) {
	a, err := s.setPublished(ctx, id, false)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("academicDataId", id.String()).Msg("Academic data unpublished")
	s.publish(websocket.EventAcademicDataUnpublished, a, false)
	return a, nil
}

// Delete removes the row and every report recorded against it
func (s *academicDataServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	a, err := s.academicDataRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.academicDataRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("academicDataId", id.String()).Msg("Deleted academic data")
	s.publish(websocket.EventAcademicDataDeleted, a, !a.Published)
	return nil
}
