package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/app/models/dto"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
)

func validStudentRequest() *dto.CreateStudentRequest {
	return &dto.CreateStudentRequest{
		FirstName:    "Aline",
		LastName:     "Uwase",
		DateOfBirth:  "2020-03-14",
		Gender:       "female",
		ClassLevel:   "Nursery 2",
		AcademicYear: "2024-2025",
	}
}

func TestCreateStudentGeneratesSequentialCodes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.svc.StudentService.CreateStudent(ctx, validStudentRequest(), nil)
	require.NoError(t, err)
	assert.Equal(t, "STD20240001", first.StudentCode)
	assert.Equal(t, "ACTIVE", first.Status)
	assert.Equal(t, "NURSERY_2", first.ClassLevel)

	second, err := env.svc.StudentService.CreateStudent(ctx, validStudentRequest(), nil)
	require.NoError(t, err)
	assert.Equal(t, "STD20240002", second.StudentCode)
}

func TestCreateStudentValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*testing.T, *testEnv, *dto.CreateStudentRequest)
	}{
		{"bad date", func(_ *testing.T, _ *testEnv, r *dto.CreateStudentRequest) { r.DateOfBirth = "14/03/2020" }},
		{"future birth", func(_ *testing.T, _ *testEnv, r *dto.CreateStudentRequest) { r.DateOfBirth = "2999-01-01" }},
		{"bad gender", func(_ *testing.T, _ *testEnv, r *dto.CreateStudentRequest) { r.Gender = "X" }},
		{"bad class", func(_ *testing.T, _ *testEnv, r *dto.CreateStudentRequest) { r.ClassLevel = "P6" }},
		{"bad year format", func(_ *testing.T, _ *testEnv, r *dto.CreateStudentRequest) { r.AcademicYear = "2024" }},
		{"non consecutive years", func(_ *testing.T, _ *testEnv, r *dto.CreateStudentRequest) { r.AcademicYear = "2024-2026" }},
		{"bad status", func(_ *testing.T, _ *testEnv, r *dto.CreateStudentRequest) { r.Status = "EXPELLED" }},
		{"inactive module", func(t *testing.T, env *testEnv, r *dto.CreateStudentRequest) {
			old := &models.Module{Name: "Old", Category: "Langage", Active: false}
			require.NoError(t, env.db.Modules().Create(context.Background(), old))
			r.ModuleIDs = []uuid.UUID{old.ID}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			req := validStudentRequest()
			tt.mutate(t, env, req)
			_, err := env.svc.StudentService.CreateStudent(context.Background(), req, nil)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

			students, err := env.db.Students().List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, students)
		})
	}
}

type failingUsers struct {
	UserStore
	err error
}

func (f failingUsers) GetByID(context.Context, uuid.UUID) (*models.User, error) {
	return nil, f.err
}

func TestCreateStudentPassesThroughParentLookupFailures(t *testing.T) {
	env := newTestEnv(t)
	dbErr := errors.New("connection reset")
	svc := NewStudentService(env.db.Students(), failingUsers{UserStore: env.db.Users(), err: dbErr}, env.db.Modules(), nil, zerolog.Nop())

	req := validStudentRequest()
	req.ParentIDs = []uuid.UUID{uuid.New()}
	_, err := svc.CreateStudent(context.Background(), req, nil)
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, apperrors.ErrResourceNotFound)

	_, err = env.svc.StudentService.CreateStudent(context.Background(), req, nil)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestCreateStudentLinksParentsAndModules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	parent := env.user(t, "0781234567", models.RoleParents)
	math := env.module(t, "Pré-Mathématiques", 1)

	req := validStudentRequest()
	req.ParentIDs = []uuid.UUID{parent.ID, parent.ID}
	req.ModuleIDs = []uuid.UUID{math.ID}
	resp, err := env.svc.StudentService.CreateStudent(ctx, req, []byte("photo"))
	require.NoError(t, err)

	require.Len(t, resp.Parents, 1)
	assert.Equal(t, "enabled", resp.Parents[0].Status)
	require.Len(t, resp.Modules, 1)
	assert.Equal(t, "Pré-Mathématiques", resp.Modules[0].Name)
	assert.Equal(t, "http://photos.test/student_"+resp.ID.String()+".jpg", resp.ProfilePhoto)

	children, err := env.svc.StudentService.GetStudentsByParent(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, resp.ID, children[0].ID)
}

func TestCreateStudentSurvivesPhotoFailure(t *testing.T) {
	env := newTestEnv(t)
	env.photos.fail = errors.New("bucket unavailable")

	resp, err := env.svc.StudentService.CreateStudent(context.Background(), validStudentRequest(), []byte("photo"))
	require.NoError(t, err)
	assert.Empty(t, resp.ProfilePhoto)
}

func TestAssignParentRequiresParentRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	student := env.student(t)
	teacher := env.user(t, "0789999999", models.RoleTeacher)

	_, err := env.svc.StudentService.AssignParent(ctx, student.ID, teacher.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotAParent)

	_, err = env.svc.StudentService.AssignParent(ctx, student.ID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	parent := env.user(t, "0781111111", models.RoleParents)
	resp, err := env.svc.StudentService.AssignParent(ctx, student.ID, parent.ID)
	require.NoError(t, err)
	resp, err = env.svc.StudentService.AssignParent(ctx, student.ID, parent.ID)
	require.NoError(t, err)
	assert.Len(t, resp.Parents, 1)
}

func TestEnrollModule(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	student := env.student(t)
	math := env.module(t, "Pré-Mathématiques", 1)
	inactive := &models.Module{Name: "Ancien", Active: false}
	require.NoError(t, env.db.Modules().Create(ctx, inactive))

	resp, err := env.svc.StudentService.EnrollModule(ctx, student.ID, math.ID)
	require.NoError(t, err)
	assert.Len(t, resp.Modules, 1)

	_, err = env.svc.StudentService.EnrollModule(ctx, student.ID, inactive.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestProfilePhotoLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	student := env.student(t)

	err := env.svc.StudentService.DeleteProfilePhoto(ctx, student.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	resp, err := env.svc.StudentService.UploadProfilePhoto(ctx, student.ID, []byte("jpeg"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ProfilePhoto)

	_, err = env.svc.StudentService.UploadProfilePhoto(ctx, student.ID, []byte("jpeg2"))
	require.NoError(t, err)
	assert.Equal(t, []string{resp.ProfilePhoto}, env.photos.deleted)

	require.NoError(t, env.svc.StudentService.DeleteProfilePhoto(ctx, student.ID))
	got, err := env.svc.StudentService.FindStudent(ctx, student.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ProfilePhoto)
}

func TestGetStudentsByClassLevel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.student(t)

	list, err := env.svc.StudentService.GetStudentsByClassLevel(ctx, "nursery-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = env.svc.StudentService.GetStudentsByClassLevel(ctx, "PRE_PRIMARY")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = env.svc.StudentService.GetStudentsByClassLevel(ctx, "grade nine")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
