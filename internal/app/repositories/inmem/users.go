package inmem

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
)

// UserStore keeps users
type UserStore struct {
	db *DB
}

func (s *UserStore) Create(_ context.Context, u *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, existing := range s.db.users {
		if existing.Phone == u.Phone {
			return apperrors.ErrPhoneAlreadyExists
		}
		if u.Email != nil && existing.Email != nil && strings.EqualFold(*existing.Email, *u.Email) {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	s.db.stamp(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	s.db.users[u.ID] = copyUser(u)
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	u, ok := s.db.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (s *UserStore) GetByPhone(_ context.Context, phone string) (*models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, u := range s.db.users {
		if u.Phone == phone {
			return copyUser(u), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (s *UserStore) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := []*models.User{}
	for _, id := range ids {
		if u, ok := s.db.users[id]; ok {
			out = append(out, copyUser(u))
		}
	}
	sortUsers(out)
	return out, nil
}

func (s *UserStore) List(_ context.Context, role *models.RoleType) ([]*models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := []*models.User{}
	for _, u := range s.db.users {
		if role != nil && !u.HasRole(*role) {
			continue
		}
		out = append(out, copyUser(u))
	}
	sortUsers(out)
	return out, nil
}

func (s *UserStore) ExistsByPhone(_ context.Context, phone string) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, u := range s.db.users {
		if u.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (s *UserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, u := range s.db.users {
		if u.Email != nil && strings.EqualFold(*u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func sortUsers(users []*models.User) {
	sort.SliceStable(users, func(i, j int) bool { return users[i].FullName < users[j].FullName })
}
