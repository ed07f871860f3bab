// Package inmem implements the repository interfaces on top of maps. It mirrors the constraints and
// orderings of the Postgres repositories and backs service and handler tests.
package inmem

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/uruhongore/academy/internal/app/models"
)

// DB holds every table. The typed stores share its lock so relations stay consistent.
type DB struct {
	mu sync.RWMutex

	users        map[uuid.UUID]*models.User
	students     map[uuid.UUID]*models.Student
	modules      map[uuid.UUID]*models.Module
	academicData map[uuid.UUID]*models.AcademicData
	reports      map[uuid.UUID]*models.Report

	// insertion sequence, used to break created_at ties
	seq   int64
	order map[uuid.UUID]int64

	now func() time.Time
}

// New creates an empty database
func New() *DB {
	return &DB{
		users:        make(map[uuid.UUID]*models.User),
		students:     make(map[uuid.UUID]*models.Student),
		modules:      make(map[uuid.UUID]*models.Module),
		academicData: make(map[uuid.UUID]*models.AcademicData),
		reports:      make(map[uuid.UUID]*models.Report),
		order:        make(map[uuid.UUID]int64),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Users returns the user store
func (db *DB) Users() *UserStore { return &UserStore{db: db} }

// Students returns the student store
func (db *DB) Students() *StudentStore { return &StudentStore{db: db} }

// Modules returns the module store
func (db *DB) Modules() *ModuleStore { return &ModuleStore{db: db} }

// AcademicData returns the academic data store
func (db *DB) AcademicData() *AcademicDataStore { return &AcademicDataStore{db: db} }

// Reports returns the report store
func (db *DB) Reports() *ReportStore { return &ReportStore{db: db} }

// ReportCount returns the number of stored reports
func (db *DB) ReportCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.reports)
}

// stamp assigns an id and timestamps to a new row. Callers hold the write lock.
func (db *DB) stamp(id *uuid.UUID, created, updated *time.Time) {
	*id = uuid.New()
	now := db.now()
	*created, *updated = now, now
	db.seq++
	db.order[*id] = db.seq
}

func copyIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, len(ids))
	copy(out, ids)
	return out
}

func copyUser(u *models.User) *models.User {
	c := *u
	c.Roles = append([]models.RoleType(nil), u.Roles...)
	if u.Email != nil {
		e := *u.Email
		c.Email = &e
	}
	return &c
}

func copyStudent(s *models.Student) *models.Student {
	c := *s
	c.ParentIDs = copyIDs(s.ParentIDs)
	c.ModuleIDs = copyIDs(s.ModuleIDs)
	if s.ProfilePhoto != nil {
		p := *s.ProfilePhoto
		c.ProfilePhoto = &p
	}
	return &c
}

func copyModule(m *models.Module) *models.Module {
	c := *m
	return &c
}

func copyAcademicData(a *models.AcademicData) *models.AcademicData {
	c := *a
	return &c
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
