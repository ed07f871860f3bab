package inmem

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
)

// AcademicDataStore keeps academic periods; the (trimester, year, period) triple is unique
type AcademicDataStore struct {
	db *DB
}

func (s *AcademicDataStore) slotTaken(a *models.AcademicData) bool {
	for id, existing := range s.db.academicData {
		if id != a.ID && existing.SameSlot(a) {
			return true
		}
	}
	return false
}

func (s *AcademicDataStore) Create(_ context.Context, a *models.AcademicData) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	a.ID = uuid.Nil
	if s.slotTaken(a) {
		return apperrors.ErrAcademicDataExists
	}
	s.db.stamp(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	s.db.academicData[a.ID] = copyAcademicData(a)
	return nil
}

func (s *AcademicDataStore) GetByID(_ context.Context, id uuid.UUID) (*models.AcademicData, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	a, ok := s.db.academicData[id]
	if !ok {
		return nil, apperrors.ErrAcademicDataNotFound
	}
	return copyAcademicData(a), nil
}

func (s *AcademicDataStore) FindBySlot(_ context.Context, t models.Trimester, year int, p models.Period) (*models.AcademicData, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, a := range s.db.academicData {
		if a.Trimester == t && a.AcademicYear == year && a.Period == p {
			return copyAcademicData(a), nil
		}
	}
	return nil, apperrors.ErrAcademicDataNotFound
}

// List returns every row, newest first
func (s *AcademicDataStore) List(_ context.Context) ([]*models.AcademicData, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := []*models.AcademicData{}
	for _, a := range s.db.academicData {
		out = append(out, copyAcademicData(a))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return s.db.order[out[i].ID] > s.db.order[out[j].ID]
	})
	return out, nil
}

// ListPublished returns published rows by year desc, trimester, then period
func (s *AcademicDataStore) ListPublished(_ context.Context) ([]*models.AcademicData, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := []*models.AcademicData{}
	for _, a := range s.db.academicData {
		if a.Published {
			out = append(out, copyAcademicData(a))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return periodLess(out[i], out[j]) })
	return out, nil
}

// periodLess orders by year desc, trimester asc, period asc
func periodLess(a, b *models.AcademicData) bool {
	if a.AcademicYear != b.AcademicYear {
		return a.AcademicYear > b.AcademicYear
	}
	if a.Trimester.Value() != b.Trimester.Value() {
		return a.Trimester.Value() < b.Trimester.Value()
	}
	return a.Period.Order() < b.Period.Order()
}

func (s *AcademicDataStore) Update(_ context.Context, a *models.AcademicData) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.academicData[a.ID]; !ok {
		return apperrors.ErrAcademicDataNotFound
	}
	if s.slotTaken(a) {
		return apperrors.ErrAcademicDataExists
	}
	a.UpdatedAt = s.db.now()
	s.db.academicData[a.ID] = copyAcademicData(a)
	return nil
}

// Delete removes the row and its reports
func (s *AcademicDataStore) Delete(_ context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.academicData[id]; !ok {
		return apperrors.ErrAcademicDataNotFound
	}
	delete(s.db.academicData, id)
	for rid, r := range s.db.reports {
		if r.AcademicDataID == id {
			delete(s.db.reports, rid)
		}
	}
	return nil
}
