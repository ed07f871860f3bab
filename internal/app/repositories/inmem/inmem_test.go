package inmem

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
)

type fixture struct {
	db      *DB
	student *models.Student
	math    *models.Module
	art     *models.Module
	p1      *models.AcademicData
	p2      *models.AcademicData
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := New()
	f := &fixture{db: db}

	f.math = &models.Module{Name: "Pré-Mathématiques", Category: "Calcul", Active: true, IndexOrder: 2}
	f.art = &models.Module{Name: "Dessin", Category: "Arts", Active: true, IndexOrder: 1}
	require.NoError(t, db.Modules().CreateBulk(ctx, []*models.Module{f.math, f.art}))

	f.student = &models.Student{
		StudentCode:  "STD20250001",
		FirstName:    "Aline",
		LastName:     "Uwase",
		DateOfBirth:  time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC),
		Gender:       models.GenderFemale,
		ClassLevel:   models.ClassNursery2,
		AcademicYear: "2025-2026",
		Status:       models.StatusActive,
		ModuleIDs:    []uuid.UUID{f.math.ID, f.art.ID},
	}
	require.NoError(t, db.Students().Create(ctx, f.student))

	f.p1 = &models.AcademicData{Trimester: models.TrimesterFirst, AcademicYear: 2025, Period: models.Period1}
	f.p2 = &models.AcademicData{Trimester: models.TrimesterFirst, AcademicYear: 2025, Period: models.Period2, Published: true}
	require.NoError(t, db.AcademicData().Create(ctx, f.p1))
	require.NoError(t, db.AcademicData().Create(ctx, f.p2))
	return f
}

func (f *fixture) report(moduleID, academicDataID uuid.UUID, score int) *models.Report {
	r := &models.Report{StudentID: f.student.ID, ModuleID: moduleID, AcademicDataID: academicDataID}
	r.SetScore(score)
	return r
}

func TestReportUpsertKeepsOneRowPerTriple(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	store := f.db.Reports()

	first := f.report(f.math.ID, f.p1.ID, 40)
	first.ClassLevel = models.ClassNursery2
	inserted, err := store.Upsert(ctx, first)
	require.NoError(t, err)
	assert.True(t, inserted)

	second := f.report(f.math.ID, f.p1.ID, 85)
	inserted, err = store.Upsert(ctx, second)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.db.ReportCount())

	got, err := store.FindByTriple(ctx, f.student.ID, f.math.ID, f.p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 85, got.Score)
	assert.Equal(t, models.GradeGreen, got.GradeColor)
	assert.Equal(t, models.ClassNursery2, got.ClassLevel, "class level kept when not given")
	require.NotNil(t, got.Module)
	assert.Equal(t, "Pré-Mathématiques", got.Module.Name)
}

func TestReportUpsertRejectsUnknownReferences(t *testing.T) {
	f := newFixture(t)

	_, err := f.db.Reports().Upsert(context.Background(), f.report(uuid.New(), f.p1.ID, 50))
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.Equal(t, 0, f.db.ReportCount())
}

func TestReportFindFiltersAndOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	store := f.db.Reports()

	for _, r := range []*models.Report{
		f.report(f.math.ID, f.p2.ID, 70),
		f.report(f.math.ID, f.p1.ID, 60),
		f.report(f.art.ID, f.p1.ID, 90),
	} {
		_, err := store.Upsert(ctx, r)
		require.NoError(t, err)
	}

	all, err := store.Find(ctx, models.ReportFilter{StudentID: &f.student.ID})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, f.p1.ID, all[0].AcademicDataID)
	assert.Equal(t, "Dessin", all[0].Module.Name)
	assert.Equal(t, "Pré-Mathématiques", all[1].Module.Name)
	assert.Equal(t, f.p2.ID, all[2].AcademicDataID)

	published, err := store.Find(ctx, models.ReportFilter{StudentID: &f.student.ID, PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, 70, published[0].Score)
}

func TestAcademicDataDeleteCascadesToReports(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.db.Reports().Upsert(ctx, f.report(f.art.ID, f.p1.ID, 30))
	require.NoError(t, err)
	require.NoError(t, f.db.AcademicData().Delete(ctx, f.p1.ID))

	assert.Equal(t, 0, f.db.ReportCount())
	_, err = f.db.AcademicData().GetByID(ctx, f.p1.ID)
	assert.ErrorIs(t, err, apperrors.ErrAcademicDataNotFound)
}

func TestAcademicDataSlotIsUnique(t *testing.T) {
	f := newFixture(t)

	dup := &models.AcademicData{Trimester: models.TrimesterFirst, AcademicYear: 2025, Period: models.Period1}
	assert.ErrorIs(t, f.db.AcademicData().Create(context.Background(), dup), apperrors.ErrAcademicDataExists)

	moved := *f.p2
	moved.Period = models.Period1
	assert.ErrorIs(t, f.db.AcademicData().Update(context.Background(), &moved), apperrors.ErrAcademicDataExists)
}

func TestStudentLinksAreIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	parent := &models.User{FullName: "Jean Uwase", Phone: "0781111111", Roles: []models.RoleType{models.RoleParents}, Enabled: true, Active: true}
	require.NoError(t, f.db.Users().Create(ctx, parent))

	require.NoError(t, f.db.Students().AddParent(ctx, f.student.ID, parent.ID))
	require.NoError(t, f.db.Students().AddParent(ctx, f.student.ID, parent.ID))

	got, err := f.db.Students().GetByID(ctx, f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{parent.ID}, got.ParentIDs)

	children, err := f.db.Students().ListByParent(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
}

func TestUserPhoneIsUnique(t *testing.T) {
	db := New()
	ctx := context.Background()

	require.NoError(t, db.Users().Create(ctx, &models.User{FullName: "A", Phone: "0780000000"}))
	err := db.Users().Create(ctx, &models.User{FullName: "B", Phone: "0780000000"})
	assert.ErrorIs(t, err, apperrors.ErrPhoneAlreadyExists)
}
