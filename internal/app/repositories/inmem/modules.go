package inmem

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
)

// ModuleStore keeps modules
type ModuleStore struct {
	db *DB
}

func (s *ModuleStore) nameTaken(name string, except uuid.UUID) bool {
	for id, m := range s.db.modules {
		if id != except && m.Name == name {
			return true
		}
	}
	return false
}

func (s *ModuleStore) Create(_ context.Context, m *models.Module) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.nameTaken(m.Name, uuid.Nil) {
		return fmt.Errorf("%w: %s", apperrors.ErrModuleNameExists, m.Name)
	}
	s.db.stamp(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	s.db.modules[m.ID] = copyModule(m)
	return nil
}

// CreateBulk inserts every module or none
func (s *ModuleStore) CreateBulk(_ context.Context, modules []*models.Module) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	seen := map[string]bool{}
	for _, m := range modules {
		if seen[m.Name] || s.nameTaken(m.Name, uuid.Nil) {
			return fmt.Errorf("%w: %s", apperrors.ErrModuleNameExists, m.Name)
		}
		seen[m.Name] = true
	}
	for _, m := range modules {
		s.db.stamp(&m.ID, &m.CreatedAt, &m.UpdatedAt)
		s.db.modules[m.ID] = copyModule(m)
	}
	return nil
}

func (s *ModuleStore) GetByID(_ context.Context, id uuid.UUID) (*models.Module, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	m, ok := s.db.modules[id]
	if !ok {
		return nil, apperrors.ErrModuleNotFound
	}
	return copyModule(m), nil
}

func (s *ModuleStore) GetByName(_ context.Context, name string) (*models.Module, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, m := range s.db.modules {
		if m.Name == name {
			return copyModule(m), nil
		}
	}
	return nil, apperrors.ErrModuleNotFound
}

func (s *ModuleStore) list(match func(*models.Module) bool) []*models.Module {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := []*models.Module{}
	for _, m := range s.db.modules {
		if match(m) {
			out = append(out, copyModule(m))
		}
	}
	sortModules(out)
	return out
}

func sortModules(modules []*models.Module) {
	sort.SliceStable(modules, func(i, j int) bool {
		if modules[i].IndexOrder != modules[j].IndexOrder {
			return modules[i].IndexOrder < modules[j].IndexOrder
		}
		return modules[i].Name < modules[j].Name
	})
}

func (s *ModuleStore) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*models.Module, error) {
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	return s.list(func(m *models.Module) bool { return want[m.ID] }), nil
}

func (s *ModuleStore) ListActive(_ context.Context) ([]*models.Module, error) {
	return s.list(func(m *models.Module) bool { return m.Active }), nil
}

func (s *ModuleStore) ListAll(_ context.Context) ([]*models.Module, error) {
	return s.list(func(*models.Module) bool { return true }), nil
}

func (s *ModuleStore) Update(_ context.Context, m *models.Module) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.modules[m.ID]; !ok {
		return apperrors.ErrModuleNotFound
	}
	if s.nameTaken(m.Name, m.ID) {
		return fmt.Errorf("%w: %s", apperrors.ErrModuleNameExists, m.Name)
	}
	m.UpdatedAt = s.db.now()
	s.db.modules[m.ID] = copyModule(m)
	return nil
}

// Delete removes the module with its enrollments and reports
func (s *ModuleStore) Delete(_ context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.modules[id]; !ok {
		return apperrors.ErrModuleNotFound
	}
	delete(s.db.modules, id)
	for _, st := range s.db.students {
		st.ModuleIDs = removeID(st.ModuleIDs, id)
	}
	for rid, r := range s.db.reports {
		if r.ModuleID == id {
			delete(s.db.reports, rid)
		}
	}
	return nil
}
