package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/app/models/dto"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
	"github.com/uruhongore/academy/internal/pkg/metrics"
)

// BulkMarksResult lists the saved reports and one message per rejected item
type BulkMarksResult struct {
	Reports []*models.Report
	Errors  []string
}

// Partial reports whether some items were rejected
func (r *BulkMarksResult) Partial() bool {
	return len(r.Errors) > 0
}

// ReportService records marks and reads them back
type ReportService interface {
	AddOrUpdateMark(ctx context.Context, req *dto.AddMarkRequest) (*models.Report, error)
	AddOrUpdateBulkMarks(ctx context.Context, req *dto.AddBulkMarksRequest) (*BulkMarksResult, error)
	UpdateMark(ctx context.Context, id uuid.UUID, req *dto.UpdateMarkRequest) (*models.Report, error)
	DeleteMark(ctx context.Context, id uuid.UUID) error
	GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error)
	GetPublishedReportsByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Report, error)
	GetPublishedReportsByStudentAndAcademicData(ctx context.Context, studentID, academicDataID uuid.UUID) ([]*models.Report, error)
	FindReports(ctx context.Context, filter models.ReportFilter) ([]*models.Report, error)
}

type reportServiceImpl struct {
	reportRepo       ReportStore
	studentRepo      StudentStore
	moduleRepo       ModuleStore
	academicDataRepo AcademicDataStore
	userRepo         UserStore
	logger           zerolog.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	reportRepo ReportStore,
	studentRepo StudentStore,
	moduleRepo ModuleStore,
	academicDataRepo AcademicDataStore,
	userRepo UserStore,
	logger zerolog.Logger,
) ReportService {
	return &reportServiceImpl{
		reportRepo:       reportRepo,
		studentRepo:      studentRepo,
		moduleRepo:       moduleRepo,
		academicDataRepo: academicDataRepo,
		userRepo:         userRepo,
		logger:           logger,
	}
}

// resolveTeacher checks an optional teacher reference
func (s *reportServiceImpl) resolveTeacher(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := s.userRepo.GetByID(ctx, *id); err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return apperrors.NewResourceNotFoundError("Teacher not found with id: " + id.String())
		}
		return err
	}
	return nil
}

func parseOptionalClassLevel(s string) (models.ClassLevel, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	return models.ParseClassLevel(s)
}

// AddOrUpdateMark saves the score of one student in one module for one academic period. An
// existing report for the triple is updated in place; teacher and comment are kept unless supplied.
func (s *reportServiceImpl) AddOrUpdateMark(ctx context.Context, req *dto.AddMarkRequest) (*models.Report, error) {
	s.logger.Info().
		Str("studentId", req.StudentID.String()).
		Str("moduleId", req.ModuleID.String()).
		Str("academicDataId", req.AcademicDataID.String()).
		Msg("Adding or updating mark")

	if req.Score == nil {
		return nil, fmt.Errorf("%w: score is required", apperrors.ErrValidationFailed)
	}
	if err := models.ValidateScore(*req.Score); err != nil {
		return nil, err
	}
	classLevel, err := parseOptionalClassLevel(req.ClassLevel)
	if err != nil {
		return nil, err
	}

	student, err := s.studentRepo.GetByID(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	module, err := s.moduleRepo.GetByID(ctx, req.ModuleID)
	if err != nil {
		return nil, err
	}
	if _, err := s.academicDataRepo.GetByID(ctx, req.AcademicDataID); err != nil {
		return nil, err
	}
	if !student.IsEnrolledIn(module.ID) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNotEnrolled, module.Name)
	}
	if err := s.resolveTeacher(ctx, req.TeacherID); err != nil {
		return nil, err
	}

	// New reports snapshot the student's current class when none is given
	if classLevel == "" {
		if _, err := s.reportRepo.FindByTriple(ctx, student.ID, module.ID, req.AcademicDataID); errors.Is(err, apperrors.ErrResourceNotFound) {
			classLevel = student.ClassLevel
		}
	}

	report := &models.Report{
		StudentID:      student.ID,
		ModuleID:       module.ID,
		AcademicDataID: req.AcademicDataID,
		ClassLevel:     classLevel,
		TeacherComment: req.TeacherComment,
		TeacherID:      req.TeacherID,
	}
	report.SetScore(*req.Score)

	inserted, err := s.reportRepo.Upsert(ctx, report)
	if err != nil {
		return nil, err
	}
	metrics.MarksRecorded.WithLabelValues("single").Inc()

	s.logger.Info().
		Str("reportId", report.ID.String()).
		Bool("created", inserted).
		Msg("Mark saved")
	return s.reportRepo.GetByID(ctx, report.ID)
}

// AddOrUpdateBulkMarks saves several module scores of one student. Student, academic period and
// teacher are checked once and abort the whole batch; every item is then processed on its own and a
// rejected item does not prevent the others from being saved. When every item fails the result is a
// *apperrors.BatchError carrying all messages.
func (s *reportServiceImpl) AddOrUpdateBulkMarks(ctx context.Context, req *dto.AddBulkMarksRequest) (*BulkMarksResult, error) {
	s.logger.Info().
		Str("studentId", req.StudentID.String()).
		Str("academicDataId", req.AcademicDataID.String()).
		Int("modules", len(req.ModuleMarks)).
		Msg("Adding or updating bulk marks")

	if len(req.ModuleMarks) == 0 {
		return nil, fmt.Errorf("%w: at least one module mark is required", apperrors.ErrValidationFailed)
	}
	classLevel, err := models.ParseClassLevel(req.ClassLevel)
	if err != nil {
		return nil, err
	}

	student, err := s.studentRepo.GetByID(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.academicDataRepo.GetByID(ctx, req.AcademicDataID); err != nil {
		return nil, err
	}
	if err := s.resolveTeacher(ctx, req.TeacherID); err != nil {
		return nil, err
	}

	result := &BulkMarksResult{Reports: []*models.Report{}}
	for _, item := range req.ModuleMarks {
		module, err := s.moduleRepo.GetByID(ctx, item.ModuleID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Error processing module %s: Module not found with id: %s", item.ModuleID, item.ModuleID))
			continue
		}
		if !student.IsEnrolledIn(module.ID) {
			result.Errors = append(result.Errors, "Student is not enrolled in module: "+module.Name)
			continue
		}
		if item.Score == nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Invalid score for module %s: missing (must be 0-100)", module.Name))
			continue
		}
		if models.ValidateScore(*item.Score) != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Invalid score for module %s: %d (must be 0-100)", module.Name, *item.Score))
			continue
		}

		report := &models.Report{
			StudentID:      student.ID,
			ModuleID:       module.ID,
			AcademicDataID: req.AcademicDataID,
			ClassLevel:     classLevel,
			TeacherComment: req.TeacherComment,
			TeacherID:      req.TeacherID,
		}
		report.SetScore(*item.Score)

		if _, err := s.reportRepo.Upsert(ctx, report); err != nil {
			s.logger.Error().Err(err).Str("moduleId", module.ID.String()).Msg("Error processing module mark")
			result.Errors = append(result.Errors, fmt.Sprintf("Error processing module %s: %s", module.ID, apperrors.Message(err)))
			continue
		}
		saved, err := s.reportRepo.GetByID(ctx, report.ID)
		if err != nil {
			saved = report
		}
		result.Reports = append(result.Reports, saved)
		metrics.MarksRecorded.WithLabelValues("bulk").Inc()
	}

	if len(result.Reports) == 0 {
		return nil, &apperrors.BatchError{Messages: result.Errors}
	}
	if result.Partial() {
		s.logger.Warn().
			Str("studentId", req.StudentID.String()).
			Strs("errors", result.Errors).
			Msg("Some marks were not processed")
	}

	s.logger.Info().
		Int("saved", len(result.Reports)).
		Int("errors", len(result.Errors)).
		Msg("Bulk marks operation completed")
	return result, nil
}

// UpdateMark changes only the supplied fields; a new score recomputes the colour
func (s *reportServiceImpl) UpdateMark(ctx context.Context, id uuid.UUID, req *dto.UpdateMarkRequest) (*models.Report, error) {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Score != nil {
		if err := models.ValidateScore(*req.Score); err != nil {
			return nil, err
		}
		report.SetScore(*req.Score)
	}
	if req.TeacherComment != nil {
		report.TeacherComment = req.TeacherComment
	}
	if req.ClassLevel != nil {
		level, err := models.ParseClassLevel(*req.ClassLevel)
		if err != nil {
			return nil, err
		}
		report.ClassLevel = level
	}

	if err := s.reportRepo.Update(ctx, report); err != nil {
		return nil, err
	}
	s.logger.Info().Str("reportId", id.String()).Msg("Mark updated")
	return report, nil
}

func (s *reportServiceImpl) DeleteMark(ctx context.Context, id uuid.UUID) error {
	if err := s.reportRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("reportId", id.String()).Msg("Mark deleted")
	return nil
}

func (s *reportServiceImpl) GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	return s.reportRepo.GetByID(ctx, id)
}

func (s *reportServiceImpl) GetPublishedReportsByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Report, error) {
	return s.FindReports(ctx, models.ReportFilter{StudentID: &studentID, PublishedOnly: true})
}

func (s *reportServiceImpl) GetPublishedReportsByStudentAndAcademicData(ctx context.Context, studentID, academicDataID uuid.UUID) ([]*models.Report, error) {
	return s.FindReports(ctx, models.ReportFilter{StudentID: &studentID, AcademicDataID: &academicDataID, PublishedOnly: true})
}

// FindReports lists reports; an unknown student is a not found error rather than an empty list
func (s *reportServiceImpl) FindReports(ctx context.Context, filter models.ReportFilter) ([]*models.Report, error) {
	if filter.StudentID != nil {
		if _, err := s.studentRepo.GetByID(ctx, *filter.StudentID); err != nil {
			return nil, err
		}
	}
	return s.reportRepo.Find(ctx, filter)
}
