package inmem

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
)

// StudentStore keeps students with their parent and module links
type StudentStore struct {
	db *DB
}

func (s *StudentStore) Create(_ context.Context, st *models.Student) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, existing := range s.db.students {
		if existing.StudentCode == st.StudentCode {
			return apperrors.NewConflictError("student code already exists: " + st.StudentCode)
		}
	}
	for _, id := range st.ParentIDs {
		if _, ok := s.db.users[id]; !ok {
			return apperrors.NewResourceNotFoundError("referenced parent_id does not exist")
		}
	}
	for _, id := range st.ModuleIDs {
		if _, ok := s.db.modules[id]; !ok {
			return apperrors.NewResourceNotFoundError("referenced module_id does not exist")
		}
	}

	s.db.stamp(&st.ID, &st.CreatedAt, &st.UpdatedAt)
	s.db.students[st.ID] = copyStudent(st)
	return nil
}

func (s *StudentStore) GetByID(_ context.Context, id uuid.UUID) (*models.Student, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	st, ok := s.db.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return copyStudent(st), nil
}

func (s *StudentStore) list(match func(*models.Student) bool) []*models.Student {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := []*models.Student{}
	for _, st := range s.db.students {
		if match(st) {
			out = append(out, copyStudent(st))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out
}

func (s *StudentStore) List(_ context.Context) ([]*models.Student, error) {
	return s.list(func(*models.Student) bool { return true }), nil
}

func (s *StudentStore) ListByParent(_ context.Context, parentID uuid.UUID) ([]*models.Student, error) {
	return s.list(func(st *models.Student) bool { return st.HasParent(parentID) }), nil
}

func (s *StudentStore) ListByClassLevel(_ context.Context, level models.ClassLevel) ([]*models.Student, error) {
	return s.list(func(st *models.Student) bool { return st.ClassLevel == level }), nil
}

func (s *StudentStore) Count(_ context.Context) (int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return len(s.db.students), nil
}

func (s *StudentStore) ExistsByCode(_ context.Context, code string) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, st := range s.db.students {
		if st.StudentCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *StudentStore) AddParent(_ context.Context, studentID, parentID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	st, ok := s.db.students[studentID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	if _, ok := s.db.users[parentID]; !ok {
		return apperrors.NewResourceNotFoundError("referenced parent_id does not exist")
	}
	if !st.HasParent(parentID) {
		st.ParentIDs = append(st.ParentIDs, parentID)
		st.UpdatedAt = s.db.now()
	}
	return nil
}

func (s *StudentStore) AddModule(_ context.Context, studentID, moduleID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	st, ok := s.db.students[studentID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	if _, ok := s.db.modules[moduleID]; !ok {
		return apperrors.NewResourceNotFoundError("referenced module_id does not exist")
	}
	if !st.IsEnrolledIn(moduleID) {
		st.ModuleIDs = append(st.ModuleIDs, moduleID)
		st.UpdatedAt = s.db.now()
	}
	return nil
}

func (s *StudentStore) UpdateProfilePhoto(_ context.Context, studentID uuid.UUID, url *string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	st, ok := s.db.students[studentID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	if url == nil {
		st.ProfilePhoto = nil
	} else {
		u := *url
		st.ProfilePhoto = &u
	}
	st.UpdatedAt = s.db.now()
	return nil
}
