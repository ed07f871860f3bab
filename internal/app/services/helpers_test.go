package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/app/repositories/inmem"
	"github.com/uruhongore/academy/internal/pkg/auth"
	"github.com/uruhongore/academy/internal/pkg/bulletin"
	"github.com/uruhongore/academy/internal/pkg/websocket"
)

type fakePhotos struct {
	mu       sync.Mutex
	uploaded map[string][]byte
	deleted  []string
	fail     error
}

func newFakePhotos() *fakePhotos {
	return &fakePhotos{uploaded: make(map[string][]byte)}
}

func (f *fakePhotos) Upload(_ context.Context, name string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return "", f.fail
	}
	f.uploaded[name] = data
	return "http://photos.test/" + name + ".jpg", nil
}

func (f *fakePhotos) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	return nil
}

type recordedEvents struct {
	mu     sync.Mutex
	events []*websocket.Event
}

func (r *recordedEvents) Publish(event *websocket.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordedEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	db     *inmem.DB
	svc    *Services
	photos *fakePhotos
	events *recordedEvents
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := inmem.New()
	env := &testEnv{db: db, photos: newFakePhotos(), events: &recordedEvents{}}
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "academy-test",
	})
	env.svc = NewServices(Stores{
		Users:        db.Users(),
		Students:     db.Students(),
		Modules:      db.Modules(),
		AcademicData: db.AcademicData(),
		Reports:      db.Reports(),
	}, jwtService, env.photos, env.events, bulletin.School{Name: "Ecole Test"}, zerolog.Nop())
	return env
}

func (e *testEnv) module(t *testing.T, name string, index int) *models.Module {
	t.Helper()
	m := &models.Module{Name: name, Category: "Langage", Active: true, IndexOrder: index}
	require.NoError(t, e.db.Modules().Create(context.Background(), m))
	return m
}

func (e *testEnv) student(t *testing.T, modules ...*models.Module) *models.Student {
	t.Helper()
	ids := make([]uuid.UUID, 0, len(modules))
	for _, m := range modules {
		ids = append(ids, m.ID)
	}
	s := &models.Student{
		StudentCode:  "STD2025" + uuid.NewString()[:4],
		FirstName:    "Aline",
		LastName:     "Uwase",
		DateOfBirth:  time.Date(2020, 5, 10, 0, 0, 0, 0, time.UTC),
		Gender:       models.GenderFemale,
		ClassLevel:   models.ClassNursery1,
		AcademicYear: "2025-2026",
		Status:       models.StatusActive,
		ModuleIDs:    ids,
	}
	require.NoError(t, e.db.Students().Create(context.Background(), s))
	return s
}

func (e *testEnv) period(t *testing.T, tr models.Trimester, p models.Period, published bool) *models.AcademicData {
	t.Helper()
	a := &models.AcademicData{Trimester: tr, AcademicYear: 2025, Period: p, Published: published}
	require.NoError(t, e.db.AcademicData().Create(context.Background(), a))
	return a
}

func (e *testEnv) user(t *testing.T, phone string, role models.RoleType) *models.User {
	t.Helper()
	u := &models.User{FullName: "User " + phone, Phone: phone, Roles: []models.RoleType{role}, Enabled: true, Active: true}
	require.NoError(t, e.db.Users().Create(context.Background(), u))
	return u
}

func intPtr(v int) *int { return &v }
