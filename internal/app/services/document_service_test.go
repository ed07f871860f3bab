package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/app/models/dto"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
	"github.com/uruhongore/academy/internal/pkg/bulletin"
)

func isPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF"))
}

func TestBulletinForTrimester(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	math := env.module(t, "Pré-Mathématiques", 1)
	student := env.student(t, math)
	period := env.period(t, models.TrimesterFirst, models.Period1, false)

	_, err := env.svc.ReportService.AddOrUpdateMark(ctx, &dto.AddMarkRequest{
		StudentID: student.ID, ModuleID: math.ID, AcademicDataID: period.ID, Score: intPtr(81),
	})
	require.NoError(t, err)

	_, err = env.svc.DocumentService.BulletinForTrimester(ctx, student.ID, models.TrimesterFirst, 2025)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound, "draft periods do not print")

	_, err = env.svc.AcademicDataService.Publish(ctx, period.ID)
	require.NoError(t, err)

	data, err := env.svc.DocumentService.BulletinForTrimester(ctx, student.ID, models.TrimesterFirst, 2025)
	require.NoError(t, err)
	assert.True(t, isPDF(data))

	data, err = env.svc.DocumentService.BulletinForAcademicData(ctx, student.ID, period.ID)
	require.NoError(t, err)
	assert.True(t, isPDF(data))

	_, err = env.svc.DocumentService.BulletinForTrimester(ctx, student.ID, models.TrimesterSecond, 2025)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestTemplateAndGrid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	student := env.student(t)

	_, err := env.svc.DocumentService.Template(ctx, student.ID, models.TrimesterFirst, 2025, "")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	math := env.module(t, "Pré-Mathématiques", 1)
	_, err = env.svc.StudentService.EnrollModule(ctx, student.ID, math.ID)
	require.NoError(t, err)
	period := env.period(t, models.TrimesterSecond, models.Period2, true)
	_, err = env.svc.ReportService.AddOrUpdateMark(ctx, &dto.AddMarkRequest{
		StudentID: student.ID, ModuleID: math.ID, AcademicDataID: period.ID, Score: intPtr(64),
	})
	require.NoError(t, err)

	data, err := env.svc.DocumentService.Template(ctx, student.ID, models.TrimesterFirst, 2025, "Nursery-1")
	require.NoError(t, err)
	assert.True(t, isPDF(data))

	data, err = env.svc.DocumentService.Grid(ctx, student.ID, 2025, "")
	require.NoError(t, err)
	assert.True(t, isPDF(data))

	_, err = env.svc.DocumentService.Grid(ctx, uuid.New(), 2025, "")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestPreviewAndGenerate(t *testing.T) {
	env := newTestEnv(t)

	data, err := env.svc.DocumentService.Preview("Aline Uwase", "Nursery-2", "")
	require.NoError(t, err)
	assert.True(t, isPDF(data))

	_, err = env.svc.DocumentService.Preview(" ", "", "")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	data, err = env.svc.DocumentService.Generate(&dto.BulletinRequest{
		StudentName: "Aline Uwase",
		Grades:      map[string]dto.SubjectGrade{"lecture": {SubjectName: "Pré- lecture", Score: 77.5}},
	})
	require.NoError(t, err)
	assert.True(t, isPDF(data))

	data, err = env.svc.DocumentService.Generate(&dto.BulletinRequest{
		StudentName:  "Aline Uwase",
		ModuleGrades: []dto.ModuleGrade{{ModuleName: "Dessin", Category: "Arts", Score: intPtr(90)}, {ModuleName: "Chant"}},
	})
	require.NoError(t, err)
	assert.True(t, isPDF(data))

	_, err = env.svc.DocumentService.Generate(&dto.BulletinRequest{
		StudentName:  "Aline Uwase",
		ModuleGrades: []dto.ModuleGrade{{ModuleName: "Dessin", Score: intPtr(120)}},
	})
	assert.ErrorIs(t, err, apperrors.ErrScoreRange)

	_, err = env.svc.DocumentService.Generate(&dto.BulletinRequest{
		StudentName: "Aline Uwase",
		Grades:      map[string]dto.SubjectGrade{"math": {Score: 100.5}},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func markOn(student *models.Student, m *models.Module, a *models.AcademicData, score int, comment string) *models.Report {
	r := &models.Report{
		ID:             uuid.New(),
		StudentID:      student.ID,
		ModuleID:       m.ID,
		AcademicDataID: a.ID,
		ClassLevel:     student.ClassLevel,
		Score:          score,
		Student:        student,
		Module:         m,
		AcademicData:   a,
	}
	if comment != "" {
		r.TeacherComment = &comment
	}
	return r
}

func slot(tr models.Trimester, p models.Period, published bool) *models.AcademicData {
	return &models.AcademicData{ID: uuid.New(), Trimester: tr, AcademicYear: 2025, Period: p, Published: published}
}

func gridScores(row bulletin.GridRow) [3]any {
	var out [3]any
	for i, s := range row.Scores {
		if s != nil {
			out[i] = *s
		}
	}
	return out
}

func TestGridFromReports(t *testing.T) {
	student := &models.Student{ID: uuid.New(), FirstName: "Aline", LastName: "Uwase", ClassLevel: models.ClassNursery2}
	math := &models.Module{ID: uuid.New(), Name: "Pré-Mathématiques", IndexOrder: 1, Active: true}
	dessin := &models.Module{ID: uuid.New(), Name: "Dessin", IndexOrder: 2, Active: true}
	musique := &models.Module{ID: uuid.New(), Name: "Musique", IndexOrder: 3, Active: true}

	firstP1 := slot(models.TrimesterFirst, models.Period1, true)
	firstFinal := slot(models.TrimesterFirst, models.FinalSemester, true)
	secondDraft := slot(models.TrimesterSecond, models.Period1, false)
	thirdP2 := slot(models.TrimesterThird, models.Period2, true)

	// final semester listed before period 1 to show the store order does not matter
	reports := []*models.Report{
		markOn(student, math, firstFinal, 88, ""),
		markOn(student, math, firstP1, 40, ""),
		markOn(student, math, secondDraft, 12, ""),
		markOn(student, dessin, secondDraft, 75, ""),
		markOn(student, dessin, thirdP2, 66, ""),
	}

	g := gridFromReports([]*models.Module{math, dessin, musique}, reports)
	require.Len(t, g.Rows, 3)

	tests := []struct {
		module string
		want   [3]any
	}{
		{"Pré-Mathématiques", [3]any{88, nil, nil}},
		{"Dessin", [3]any{nil, nil, 66}},
		{"Musique", [3]any{nil, nil, nil}},
	}
	for i, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			assert.Equal(t, tt.module, g.Rows[i].Module)
			assert.Equal(t, tt.want, gridScores(g.Rows[i]))
		})
	}
}

func TestSimpleFromReports(t *testing.T) {
	student := &models.Student{ID: uuid.New(), FirstName: "Aline", LastName: "Uwase", ClassLevel: models.ClassNursery2}
	math := &models.Module{ID: uuid.New(), Name: "Pré-Mathématiques", Category: "Mathématiques", IndexOrder: 2}
	lecture := &models.Module{ID: uuid.New(), Name: "Pré-lecture", Category: "Langage", IndexOrder: 1}
	chant := &models.Module{ID: uuid.New(), Name: "Chant", IndexOrder: 3}

	p1 := slot(models.TrimesterSecond, models.Period1, true)
	final := slot(models.TrimesterSecond, models.FinalSemester, true)

	earlier := markOn(student, math, p1, 30, "Needs practice")
	earlier.ClassLevel = models.ClassNursery1
	reports := []*models.Report{
		earlier,
		markOn(student, lecture, p1, 55, "Period comment"),
		markOn(student, chant, p1, 90, ""),
		markOn(student, math, final, 81, "Good progress"),
	}

	b := simpleFromReports(bulletin.School{Name: "Ecole Test"}, reports)

	assert.Equal(t, "Ecole Test", b.School.Name)
	assert.Equal(t, "Aline Uwase", b.StudentName)
	assert.Equal(t, "Good progress", b.Comment, "comment comes from the latest period")
	assert.Equal(t, models.ClassNursery2.DisplayName(), b.Classe)
	assert.Equal(t, "2025", b.Annee)
	assert.Equal(t, "TRIMESTRE II", b.Trimester)

	require.Len(t, b.Lines, 3, "one row per module")
	type line struct {
		domain, subject string
		score           float64
	}
	got := make([]line, 0, len(b.Lines))
	for _, l := range b.Lines {
		require.NotNil(t, l.Score)
		got = append(got, line{l.Domain, l.Subject, *l.Score})
	}
	assert.Equal(t, []line{
		{"Langage", "Pré-lecture", 55},
		{"Mathématiques", "Pré-Mathématiques", 81},
		{"Chant", "", 90},
	}, got)
}
