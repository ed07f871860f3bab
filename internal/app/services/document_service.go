package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/app/models/dto"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
	"github.com/uruhongore/academy/internal/pkg/bulletin"
	"github.com/uruhongore/academy/internal/pkg/metrics"
)

const notAvailable = "N/A"

// DocumentService renders bulletins as PDF
type DocumentService interface {
	BulletinForTrimester(ctx context.Context, studentID uuid.UUID, t models.Trimester, year int) ([]byte, error)
	BulletinForAcademicData(ctx context.Context, studentID, academicDataID uuid.UUID) ([]byte, error)
	Template(ctx context.Context, studentID uuid.UUID, t models.Trimester, year int, classe string) ([]byte, error)
	Grid(ctx context.Context, studentID uuid.UUID, year int, classe string) ([]byte, error)
	Preview(studentName, classe, annee string) ([]byte, error)
	Generate(req *dto.BulletinRequest) ([]byte, error)
}

type documentServiceImpl struct {
	reportRepo  ReportStore
	studentRepo StudentStore
	moduleRepo  ModuleStore
	school      bulletin.School
	logger      zerolog.Logger
}

// NewDocumentService creates a new DocumentService printing school in every header
func NewDocumentService(
	reportRepo ReportStore,
	studentRepo StudentStore,
	moduleRepo ModuleStore,
	school bulletin.School,
	logger zerolog.Logger,
) DocumentService {
	return &documentServiceImpl{
		reportRepo:  reportRepo,
		studentRepo: studentRepo,
		moduleRepo:  moduleRepo,
		school:      school,
		logger:      logger,
	}
}

func (s *documentServiceImpl) render(kind string, doc *bulletin.Document) ([]byte, error) {
	data, err := bulletin.Render(doc)
	if err != nil {
		metrics.BulletinRenders.WithLabelValues(kind, "error").Inc()
		s.logger.Error().Err(err).Str("kind", kind).Msg("Failed to render bulletin")
		return nil, apperrors.NewRenderingError(err)
	}
	metrics.BulletinRenders.WithLabelValues(kind, "ok").Inc()
	s.logger.Info().Str("kind", kind).Int("bytes", len(data)).Msg("Bulletin rendered")
	return data, nil
}

// BulletinForTrimester renders the published marks of a student for one trimester of a year
func (s *documentServiceImpl) BulletinForTrimester(ctx context.Context, studentID uuid.UUID, t models.Trimester, year int) ([]byte, error) {
	reports, err := s.reportRepo.Find(ctx, models.ReportFilter{
		StudentID:     &studentID,
		Trimester:     &t,
		AcademicYear:  &year,
		PublishedOnly: true,
	})
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, apperrors.NewResourceNotFoundError("No reports found for the given student, trimester, and academic year")
	}
	return s.render("simple", bulletin.BuildSimple(simpleFromReports(s.school, reports)))
}

// BulletinForAcademicData renders the published marks of a student for one academic period
func (s *documentServiceImpl) BulletinForAcademicData(ctx context.Context, studentID, academicDataID uuid.UUID) ([]byte, error) {
	reports, err := s.reportRepo.Find(ctx, models.ReportFilter{
		StudentID:      &studentID,
		AcademicDataID: &academicDataID,
		PublishedOnly:  true,
	})
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, apperrors.NewResourceNotFoundError("No reports found for the given student and academic data")
	}
	return s.render("simple", bulletin.BuildSimple(simpleFromReports(s.school, reports)))
}

// periodRank orders reports by period inside one trimester; reports without a loaded period rank first
func periodRank(r *models.Report) int {
	if r.AcademicData == nil {
		return 0
	}
	return r.AcademicData.Period.Order()
}

// latestPerModule keeps the report of the latest period of each module and returns them in
// module display order
func latestPerModule(reports []*models.Report) []*models.Report {
	byModule := make(map[uuid.UUID]*models.Report, len(reports))
	for _, r := range reports {
		if cur, ok := byModule[r.ModuleID]; !ok || periodRank(r) >= periodRank(cur) {
			byModule[r.ModuleID] = r
		}
	}
	out := make([]*models.Report, 0, len(byModule))
	for _, r := range byModule {
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		mi, mj := out[i].Module, out[j].Module
		if mi == nil || mj == nil {
			return out[i].ModuleID.String() < out[j].ModuleID.String()
		}
		if mi.IndexOrder != mj.IndexOrder {
			return mi.IndexOrder < mj.IndexOrder
		}
		return mi.Name < mj.Name
	})
	return out
}

// simpleFromReports builds one row per module from its latest report. Class, comment and
// trimester come from a report of the latest period printed.
func simpleFromReports(school bulletin.School, reports []*models.Report) bulletin.Simple {
	rows := latestPerModule(reports)

	// first report of the latest period, in display order
	meta := rows[0]
	for _, r := range rows[1:] {
		if periodRank(r) > periodRank(meta) {
			meta = r
		}
	}

	classe := notAvailable
	if meta.ClassLevel != "" {
		classe = meta.ClassLevel.DisplayName()
	}
	comment := ""
	if meta.TeacherComment != nil {
		comment = *meta.TeacherComment
	}
	b := bulletin.Simple{
		School:  school,
		Classe:  classe,
		Comment: comment,
	}
	if meta.Student != nil {
		b.StudentName = meta.Student.FullName()
	}
	if meta.AcademicData != nil {
		b.Annee = strconv.Itoa(meta.AcademicData.AcademicYear)
		b.Trimester = meta.AcademicData.Trimester.Label()
	}

	for _, r := range rows {
		score := float64(r.Score)
		b.Lines = append(b.Lines, moduleLine(r.Module, &score))
	}
	return b
}

// moduleLine puts the category in the domain column when there is one
func moduleLine(m *models.Module, score *float64) bulletin.Line {
	if m == nil {
		return bulletin.Line{Score: score}
	}
	return categoryLine(m.Category, m.Name, score)
}

func categoryLine(category, name string, score *float64) bulletin.Line {
	if strings.TrimSpace(category) == "" {
		return bulletin.Line{Domain: name, Score: score}
	}
	return bulletin.Line{Domain: category, Subject: name, Score: score}
}

func (s *documentServiceImpl) activeModules(ctx context.Context) ([]*models.Module, error) {
	modules, err := s.moduleRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(modules) == 0 {
		return nil, apperrors.NewResourceNotFoundError("No active modules found. Please add modules first.")
	}
	return modules, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// Template renders an empty bulletin listing every active module, to be filled in by hand
func (s *documentServiceImpl) Template(ctx context.Context, studentID uuid.UUID, t models.Trimester, year int, classe string) ([]byte, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	modules, err := s.activeModules(ctx)
	if err != nil {
		return nil, err
	}

	b := bulletin.Simple{
		School:      s.school,
		StudentName: student.FullName(),
		Classe:      orDefault(classe, notAvailable),
		Annee:       strconv.Itoa(year),
		Trimester:   t.Label(),
	}
	for _, m := range modules {
		b.Lines = append(b.Lines, moduleLine(m, nil))
	}
	return s.render("template", bulletin.BuildSimple(b))
}

// Grid renders the whole-year view. Each cell shows the latest published period of that trimester.
func (s *documentServiceImpl) Grid(ctx context.Context, studentID uuid.UUID, year int, classe string) ([]byte, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	modules, err := s.activeModules(ctx)
	if err != nil {
		return nil, err
	}

	reports, err := s.reportRepo.Find(ctx, models.ReportFilter{
		StudentID:     &studentID,
		AcademicYear:  &year,
		PublishedOnly: true,
	})
	if err != nil {
		return nil, err
	}

	g := gridFromReports(modules, reports)
	g.School = s.school
	g.StudentName = student.FullName()
	g.Classe = orDefault(classe, notAvailable)
	g.Annee = strconv.Itoa(year)
	return s.render("grid", bulletin.BuildGrid(g))
}

// Preview renders the empty nursery curriculum for a name typed by the user
func (s *documentServiceImpl) Preview(studentName, classe, annee string) ([]byte, error) {
	if strings.TrimSpace(studentName) == "" {
		return nil, fmt.Errorf("%w: student name is required", apperrors.ErrValidationFailed)
	}
	b := bulletin.Simple{
		School:      s.school,
		StudentName: studentName,
		Classe:      classe,
		Annee:       orDefault(annee, "2025/2026"),
		Lines:       bulletin.CurriculumLines(nil),
	}
	return s.render("preview", bulletin.BuildSimple(b))
}

// Generate renders a bulletin from posted data only. Without module grades the nursery curriculum
// is filled from the grades map.
func (s *documentServiceImpl) Generate(req *dto.BulletinRequest) ([]byte, error) {
	if req == nil || strings.TrimSpace(req.StudentName) == "" {
		return nil, fmt.Errorf("%w: student name is required", apperrors.ErrValidationFailed)
	}

	b := bulletin.Simple{
		School:      s.school,
		StudentName: req.StudentName,
		Classe:      req.Classe,
		Annee:       req.Annee,
		Trimester:   req.Trimester,
		Comment:     req.Comment,
	}

	if len(req.ModuleGrades) > 0 {
		for _, g := range req.ModuleGrades {
			if strings.TrimSpace(g.ModuleName) == "" {
				return nil, fmt.Errorf("%w: module name is required", apperrors.ErrValidationFailed)
			}
			var score *float64
			if g.Score != nil {
				if err := models.ValidateScore(*g.Score); err != nil {
					return nil, err
				}
				v := float64(*g.Score)
				score = &v
			}
			b.Lines = append(b.Lines, categoryLine(g.Category, g.ModuleName, score))
		}
	} else {
		scores := make(map[string]float64, len(req.Grades))
		for key, g := range req.Grades {
			if g.Score < models.MinScore || g.Score > models.MaxScore {
				return nil, fmt.Errorf("%w: grade %s must be between 0 and 100", apperrors.ErrValidationFailed, key)
			}
			scores[key] = g.Score
		}
		b.Lines = bulletin.CurriculumLines(scores)
	}

	return s.render("adhoc", bulletin.BuildSimple(b))
}

// gridFromReports puts each module in a row, in the given order, and each published score under
// its trimester. When a trimester has several periods the latest one fills the cell.
func gridFromReports(modules []*models.Module, reports []*models.Report) bulletin.Grid {
	type cell struct {
		score int
		rank  int
	}
	cells := make(map[uuid.UUID]*[3]*cell, len(modules))
	for _, r := range reports {
		// drafts never print, whatever the caller fetched
		if r.AcademicData == nil || !r.AcademicData.Published {
			continue
		}
		idx := r.AcademicData.Trimester.Value() - 1
		if idx < 0 || idx > 2 {
			continue
		}
		row, ok := cells[r.ModuleID]
		if !ok {
			row = &[3]*cell{}
			cells[r.ModuleID] = row
		}
		if cur := row[idx]; cur == nil || periodRank(r) >= cur.rank {
			row[idx] = &cell{score: r.Score, rank: periodRank(r)}
		}
	}

	var g bulletin.Grid
	for _, m := range modules {
		row := bulletin.GridRow{Module: m.Name}
		if cs, ok := cells[m.ID]; ok {
			for i, c := range cs {
				if c != nil {
					score := c.score
					row.Scores[i] = &score
				}
			}
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}
