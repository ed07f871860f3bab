package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/app/models/dto"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
	"github.com/uruhongore/academy/internal/pkg/validation"
)

// StudentService manages students, their parents, enrollments and photos
type StudentService interface {
	CreateStudent(ctx context.Context, req *dto.CreateStudentRequest, photo []byte) (*dto.StudentResponse, error)
	FindStudent(ctx context.Context, id uuid.UUID) (*models.Student, error)
	GetStudent(ctx context.Context, id uuid.UUID) (*dto.StudentResponse, error)
	ListStudents(ctx context.Context) ([]dto.StudentResponse, error)
	GetStudentParents(ctx context.Context, id uuid.UUID) ([]dto.ParentInfo, error)
	GetStudentsByParent(ctx context.Context, parentID uuid.UUID) ([]dto.StudentResponse, error)
	GetStudentsByClassLevel(ctx context.Context, level string) ([]dto.StudentResponse, error)
	AssignParent(ctx context.Context, studentID, parentID uuid.UUID) (*dto.StudentResponse, error)
	EnrollModule(ctx context.Context, studentID, moduleID uuid.UUID) (*dto.StudentResponse, error)
	UploadProfilePhoto(ctx context.Context, studentID uuid.UUID, data []byte) (*dto.StudentResponse, error)
	DeleteProfilePhoto(ctx context.Context, studentID uuid.UUID) error
}

type studentServiceImpl struct {
	studentRepo StudentStore
	userRepo    UserStore
	moduleRepo  ModuleStore
	photos      PhotoStore
	logger      zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(
	studentRepo StudentStore,
	userRepo UserStore,
	moduleRepo ModuleStore,
	photos PhotoStore,
	logger zerolog.Logger,
) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
		userRepo:    userRepo,
		moduleRepo:  moduleRepo,
		photos:      photos,
		logger:      logger,
	}
}

// parseStudent validates the request and builds an unsaved student
func parseStudent(req *dto.CreateStudentRequest) (*models.Student, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	year := strings.TrimSpace(req.AcademicYear)
	if err := validation.All(
		validation.NewStringValidation("firstName", firstName).WithMaxLength(validation.NameMaxLength),
		validation.NewStringValidation("lastName", lastName).WithMaxLength(validation.NameMaxLength),
		validation.NewStringValidation("academicYear", year).WithPattern(validation.CompiledPatterns.AcademicYear, "2024-2025"),
	); err != nil {
		return nil, err
	}

	dob, err := time.Parse("2006-01-02", strings.TrimSpace(req.DateOfBirth))
	if err != nil {
		return nil, fmt.Errorf("%w: date of birth must be formatted YYYY-MM-DD", apperrors.ErrValidationFailed)
	}
	if !dob.Before(time.Now()) {
		return nil, fmt.Errorf("%w: date of birth must be in the past", apperrors.ErrValidationFailed)
	}

	gender, ok := models.ParseGender(req.Gender)
	if !ok {
		return nil, fmt.Errorf("%w: gender must be MALE or FEMALE", apperrors.ErrValidationFailed)
	}

	level, err := models.ParseClassLevel(req.ClassLevel)
	if err != nil {
		return nil, err
	}

	m := validation.CompiledPatterns.AcademicYear.FindStringSubmatch(year)
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	if end != start+1 {
		return nil, fmt.Errorf("%w: academic year must span two consecutive years", apperrors.ErrValidationFailed)
	}

	status := models.StatusActive
	if s := strings.ToUpper(strings.TrimSpace(req.Status)); s != "" {
		status = models.StudentStatus(s)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: invalid status %q", apperrors.ErrValidationFailed, req.Status)
		}
	}

	return &models.Student{
		FirstName:    firstName,
		LastName:     lastName,
		DateOfBirth:  dob,
		Gender:       gender,
		ClassLevel:   level,
		AcademicYear: year,
		Status:       status,
		ParentIDs:    uniqueIDs(req.ParentIDs),
		ModuleIDs:    uniqueIDs(req.ModuleIDs),
	}, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// requireParent loads a user and checks it holds PARENTS
func (s *studentServiceImpl) requireParent(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Parent not found with ID: " + id.String())
		}
		return nil, err
	}
	if !user.HasRole(models.RoleParents) {
		return nil, fmt.Errorf("%w: user %s is not a parent", apperrors.ErrNotAParent, user.FullName)
	}
	return user, nil
}

// generateCode returns STD<start year><count+1, 4 digits>, skipping codes already taken
func (s *studentServiceImpl) generateCode(ctx context.Context, academicYear string) (string, error) {
	startYear := academicYear[:4]
	count, err := s.studentRepo.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("error counting students: %w", err)
	}

	for n := count + 1; ; n++ {
		code := fmt.Sprintf("STD%s%04d", startYear, n)
		exists, err := s.studentRepo.ExistsByCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("error checking student code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
}

// CreateStudent inserts the student with its links in one transaction, then stores the optional
// photo. A failed photo upload does not fail the creation.
func (s *studentServiceImpl) CreateStudent(ctx context.Context, req *dto.CreateStudentRequest, photo []byte) (*dto.StudentResponse, error) {
	student, err := parseStudent(req)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("firstName", student.FirstName).Str("lastName", student.LastName).Msg("Creating student")

	for _, id := range student.ParentIDs {
		if _, err := s.requireParent(ctx, id); err != nil {
			return nil, err
		}
	}
	for _, id := range student.ModuleIDs {
		module, err := s.moduleRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				return nil, apperrors.NewResourceNotFoundError("Module not found with ID: " + id.String())
			}
			return nil, err
		}
		// new enrolments only go to active modules
		if !module.Active {
			return nil, fmt.Errorf("%w: module %s is inactive", apperrors.ErrValidationFailed, module.Name)
		}
	}

	code, err := s.generateCode(ctx, student.AcademicYear)
	if err != nil {
		return nil, err
	}
	student.StudentCode = code

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}

	if len(photo) > 0 && s.photos != nil {
		if url, err := s.photos.Upload(ctx, photoName(student.ID), photo); err != nil {
			s.logger.Error().Err(err).Str("studentId", student.ID.String()).Msg("Failed to upload profile photo for new student")
		} else if err := s.studentRepo.UpdateProfilePhoto(ctx, student.ID, &url); err != nil {
			s.logger.Error().Err(err).Str("studentId", student.ID.String()).Msg("Failed to save profile photo url")
		} else {
			student.ProfilePhoto = &url
		}
	}

	s.logger.Info().Str("studentId", student.ID.String()).Str("studentCode", code).Msg("Student created")
	return s.describe(ctx, student)
}

func photoName(id uuid.UUID) string {
	return "student_" + id.String()
}

func (s *studentServiceImpl) FindStudent(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

func (s *studentServiceImpl) GetStudent(ctx context.Context, id uuid.UUID) (*dto.StudentResponse, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.describe(ctx, student)
}

// describe resolves the parents and modules of a single student
func (s *studentServiceImpl) describe(ctx context.Context, student *models.Student) (*dto.StudentResponse, error) {
	list, err := s.describeAll(ctx, []*models.Student{student})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

// describeAll resolves parents and modules for a list with one lookup per kind
func (s *studentServiceImpl) describeAll(ctx context.Context, students []*models.Student) ([]dto.StudentResponse, error) {
	var parentIDs, moduleIDs []uuid.UUID
	for _, st := range students {
		parentIDs = append(parentIDs, st.ParentIDs...)
		moduleIDs = append(moduleIDs, st.ModuleIDs...)
	}

	parents, err := s.userRepo.GetByIDs(ctx, uniqueIDs(parentIDs))
	if err != nil {
		return nil, err
	}
	modules, err := s.moduleRepo.GetByIDs(ctx, uniqueIDs(moduleIDs))
	if err != nil {
		return nil, err
	}
	parentByID := make(map[uuid.UUID]*models.User, len(parents))
	for _, p := range parents {
		parentByID[p.ID] = p
	}
	moduleByID := make(map[uuid.UUID]*models.Module, len(modules))
	for _, m := range modules {
		moduleByID[m.ID] = m
	}

	out := make([]dto.StudentResponse, 0, len(students))
	for _, st := range students {
		var ps []*models.User
		for _, id := range st.ParentIDs {
			if p, ok := parentByID[id]; ok {
				ps = append(ps, p)
			}
		}
		var ms []*models.Module
		for _, id := range st.ModuleIDs {
			if m, ok := moduleByID[id]; ok {
				ms = append(ms, m)
			}
		}
		out = append(out, dto.NewStudentResponse(st, ps, ms))
	}
	return out, nil
}

func (s *studentServiceImpl) ListStudents(ctx context.Context) ([]dto.StudentResponse, error) {
	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.describeAll(ctx, students)
}

func (s *studentServiceImpl) GetStudentParents(ctx context.Context, id uuid.UUID) ([]dto.ParentInfo, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	parents, err := s.userRepo.GetByIDs(ctx, student.ParentIDs)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ParentInfo, 0, len(parents))
	for _, p := range parents {
		out = append(out, dto.NewParentInfo(p))
	}
	return out, nil
}

// GetStudentsByParent lists the children of a user holding PARENTS
func (s *studentServiceImpl) GetStudentsByParent(ctx context.Context, parentID uuid.UUID) ([]dto.StudentResponse, error) {
	if _, err := s.requireParent(ctx, parentID); err != nil {
		return nil, err
	}
	students, err := s.studentRepo.ListByParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	return s.describeAll(ctx, students)
}

func (s *studentServiceImpl) GetStudentsByClassLevel(ctx context.Context, level string) ([]dto.StudentResponse, error) {
	cl, err := models.ParseClassLevel(level)
	if err != nil {
		return nil, err
	}
	students, err := s.studentRepo.ListByClassLevel(ctx, cl)
	if err != nil {
		return nil, err
	}
	return s.describeAll(ctx, students)
}

// AssignParent links a PARENTS user to a student. Linking twice is harmless.
func (s *studentServiceImpl) AssignParent(ctx context.Context, studentID, parentID uuid.UUID) (*dto.StudentResponse, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireParent(ctx, parentID); err != nil {
		return nil, err
	}
	if !student.HasParent(parentID) {
		if err := s.studentRepo.AddParent(ctx, studentID, parentID); err != nil {
			return nil, err
		}
		student.ParentIDs = append(student.ParentIDs, parentID)
	}
	s.logger.Info().Str("studentId", studentID.String()).Str("parentId", parentID.String()).Msg("Parent assigned")
	return s.describe(ctx, student)
}

// EnrollModule adds an active module to the student's module set. Enrolling twice is harmless.
func (s *studentServiceImpl) EnrollModule(ctx context.Context, studentID, moduleID uuid.UUID) (*dto.StudentResponse, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	module, err := s.moduleRepo.GetByID(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if !module.Active {
		return nil, fmt.Errorf("%w: module %s is inactive", apperrors.ErrValidationFailed, module.Name)
	}
	if !student.IsEnrolledIn(moduleID) {
		if err := s.studentRepo.AddModule(ctx, studentID, moduleID); err != nil {
			return nil, err
		}
		student.ModuleIDs = append(student.ModuleIDs, moduleID)
	}
	s.logger.Info().Str("studentId", studentID.String()).Str("moduleId", moduleID.String()).Msg("Student enrolled in module")
	return s.describe(ctx, student)
}

// UploadProfilePhoto replaces the student's photo
func (s *studentServiceImpl) UploadProfilePhoto(ctx context.Context, studentID uuid.UUID, data []byte) (*dto.StudentResponse, error) {
	if s.photos == nil {
		return nil, fmt.Errorf("%w: photo storage is not configured", apperrors.ErrStorage)
	}
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if student.ProfilePhoto != nil {
		if err := s.photos.Delete(ctx, *student.ProfilePhoto); err != nil {
			s.logger.Warn().Err(err).Str("studentId", studentID.String()).Msg("Failed to delete previous profile photo")
		}
	}

	url, err := s.photos.Upload(ctx, photoName(studentID), data)
	if err != nil {
		return nil, err
	}
	if err := s.studentRepo.UpdateProfilePhoto(ctx, studentID, &url); err != nil {
		return nil, err
	}
	student.ProfilePhoto = &url

	s.logger.Info().Str("studentId", studentID.String()).Msg("Profile photo uploaded")
	return s.describe(ctx, student)
}

// DeleteProfilePhoto removes the photo from storage and clears the URL
func (s *studentServiceImpl) DeleteProfilePhoto(ctx context.Context, studentID uuid.UUID) error {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return err
	}
	if student.ProfilePhoto == nil {
		return apperrors.NewResourceNotFoundError("Student has no profile photo")
	}
	if s.photos != nil {
		if err := s.photos.Delete(ctx, *student.ProfilePhoto); err != nil {
			return err
		}
	}
	if err := s.studentRepo.UpdateProfilePhoto(ctx, studentID, nil); err != nil {
		return err
	}
	s.logger.Info().Str("studentId", studentID.String()).Msg("Profile photo deleted")
	return nil
}
