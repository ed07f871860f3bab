package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
	"github.com/uruhongore/academy/internal/pkg/dberrors"
	"github.com/uruhongore/academy/internal/pkg/logger"
)

var reportColumns = []string{
	"r.id", "r.student_id", "r.module_id", "r.academic_data_id", "COALESCE(r.class_level, '')", "r.score",
	"r.grade_color", "r.teacher_comment", "r.teacher_id", "r.approved_by", "r.date_recorded",
	"r.created_at", "r.updated_at",
	"s.student_code", "s.first_name", "s.last_name", "s.class_level",
	"m.name", "COALESCE(m.category, '')", "m.active", "m.index_order",
	"ad.trimester", "ad.academic_year", "ad.period", "ad.published",
	"t.full_name", "t.email", "ap.full_name", "ap.email",
}

const upsertReportSQL = `
	INSERT INTO reports (student_id, module_id, academic_data_id, class_level, score, grade_color, teacher_comment, teacher_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT ON CONSTRAINT uk_reports_student_module_academic_data DO UPDATE SET
		score = EXCLUDED.score,
		grade_color = EXCLUDED.grade_color,
		class_level = COALESCE(EXCLUDED.class_level, reports.class_level),
		teacher_comment = COALESCE(EXCLUDED.teacher_comment, reports.teacher_comment),
		teacher_id = COALESCE(EXCLUDED.teacher_id, reports.teacher_id),
		updated_at = NOW()
	RETURNING id, COALESCE(class_level, ''), teacher_comment, teacher_id, approved_by, date_recorded,
		created_at, updated_at, (xmax = 0) AS inserted`

// ReportRepository handles report database operations
type ReportRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{
		db: pool,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ReportRepository) selectReports() squirrel.SelectBuilder {
	return r.sb.Select(reportColumns...).
		From("reports r").
		Join("students s ON s.id = r.student_id").
		Join("modules m ON m.id = r.module_id").
		Join("academic_data ad ON ad.id = r.academic_data_id").
		LeftJoin("users t ON t.id = r.teacher_id").
		LeftJoin("users ap ON ap.id = r.approved_by")
}

func scanReport(row pgx.Row) (*models.Report, error) {
	rep := &models.Report{}
	st := &models.Student{}
	mod := &models.Module{}
	ad := &models.AcademicData{}
	var teacherName, teacherEmail, approverName, approverEmail *string

	if err := row.Scan(
		&rep.ID, &rep.StudentID, &rep.ModuleID, &rep.AcademicDataID, &rep.ClassLevel, &rep.Score,
		&rep.GradeColor, &rep.TeacherComment, &rep.TeacherID, &rep.ApprovedByID, &rep.DateRecorded,
		&rep.CreatedAt, &rep.UpdatedAt,
		&st.StudentCode, &st.FirstName, &st.LastName, &st.ClassLevel,
		&mod.Name, &mod.Category, &mod.Active, &mod.IndexOrder,
		&ad.Trimester, &ad.AcademicYear, &ad.Period, &ad.Published,
		&teacherName, &teacherEmail, &approverName, &approverEmail,
	); err != nil {
		return nil, err
	}

	st.ID = rep.StudentID
	mod.ID = rep.ModuleID
	ad.ID = rep.AcademicDataID
	rep.Student, rep.Module, rep.AcademicData = st, mod, ad
	if rep.TeacherID != nil && teacherName != nil {
		rep.Teacher = &models.User{ID: *rep.TeacherID, FullName: *teacherName, Email: teacherEmail}
	}
	if rep.ApprovedByID != nil && approverName != nil {
		rep.ApprovedBy = &models.User{ID: *rep.ApprovedByID, FullName: *approverName, Email: approverEmail}
	}
	return rep, nil
}

// Upsert inserts the report or, when the (student, module, academic data) triple exists, updates
// its score and colour. Class level, comment and teacher are only overwritten when set on rep.
// It reports whether a new row was inserted.
func (r *ReportRepository) Upsert(ctx context.Context, rep *models.Report) (bool, error) {
	var classLevel *string
	if rep.ClassLevel != "" {
		v := string(rep.ClassLevel)
		classLevel = &v
	}

	var inserted bool
	err := r.db.QueryRow(ctx, upsertReportSQL,
		rep.StudentID, rep.ModuleID, rep.AcademicDataID, classLevel, rep.Score, string(rep.GradeColor),
		rep.TeacherComment, rep.TeacherID,
	).Scan(&rep.ID, &rep.ClassLevel, &rep.TeacherComment, &rep.TeacherID, &rep.ApprovedByID, &rep.DateRecorded,
		&rep.CreatedAt, &rep.UpdatedAt, &inserted)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return false, apperrors.NewResourceNotFoundError("referenced entity does not exist: " + dberrors.ConstraintName(err))
		}
		logger.Error().Err(err).
			Str("studentID", rep.StudentID.String()).
			Str("moduleID", rep.ModuleID.String()).
			Msg("Error executing upsert report query")
		return false, fmt.Errorf("error saving report: %w", err)
	}
	return inserted, nil
}

func (r *ReportRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Report, error) {
	sql, args, err := r.selectReports().Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get report query: %w", err)
	}

	rep, err := scanReport(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrReportNotFound
		}
		logger.Error().Err(err).Msg("Error scanning report row")
		return nil, fmt.Errorf("error getting report: %w", err)
	}
	return rep, nil
}

// GetByID retrieves a report with its relations
func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	return r.getOne(ctx, squirrel.Eq{"r.id": id})
}

// FindByTriple retrieves the report of a student for a module in an academic period
func (r *ReportRepository) FindByTriple(ctx context.Context, studentID, moduleID, academicDataID uuid.UUID) (*models.Report, error) {
	return r.getOne(ctx, squirrel.Eq{
		"r.student_id":       studentID,
		"r.module_id":        moduleID,
		"r.academic_data_id": academicDataID,
	})
}

// Find retrieves the reports matching filter ordered by period, then module index
func (r *ReportRepository) Find(ctx context.Context, filter models.ReportFilter) ([]*models.Report, error) {
	where := squirrel.And{}
	if filter.StudentID != nil {
		where = append(where, squirrel.Eq{"r.student_id": *filter.StudentID})
	}
	if filter.AcademicDataID != nil {
		where = append(where, squirrel.Eq{"r.academic_data_id": *filter.AcademicDataID})
	}
	if filter.Trimester != nil {
		where = append(where, squirrel.Eq{"ad.trimester": string(*filter.Trimester)})
	}
	if filter.AcademicYear != nil {
		where = append(where, squirrel.Eq{"ad.academic_year": *filter.AcademicYear})
	}
	if filter.PublishedOnly {
		where = append(where, squirrel.Eq{"ad.published": true})
	}

	sql, args, err := r.selectReports().
		Where(where).
		OrderBy("ad.academic_year DESC", "ad.trimester ASC", periodOrder("ad.period"), "m.index_order ASC", "m.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find reports query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing find reports query")
		return nil, fmt.Errorf("error querying reports: %w", err)
	}
	defer rows.Close()

	reports := []*models.Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning report row: %w", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", err)
	}
	return reports, nil
}

// Update saves score, colour, comment and class level
func (r *ReportRepository) Update(ctx context.Context, rep *models.Report) error {
	var classLevel *string
	if rep.ClassLevel != "" {
		v := string(rep.ClassLevel)
		classLevel = &v
	}
	sql, args, err := r.sb.Update("reports").
		SetMap(map[string]interface{}{
			"score":           rep.Score,
			"grade_color":     string(rep.GradeColor),
			"teacher_comment": rep.TeacherComment,
			"class_level":     classLevel,
			"updated_at":      squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": rep.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update report query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&rep.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrReportNotFound
		}
		logger.Error().Err(err).Str("reportID", rep.ID.String()).Msg("Error executing update report query")
		return fmt.Errorf("error updating report: %w", err)
	}
	return nil
}

// Delete removes a report
func (r *ReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := r.sb.Delete("reports").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete report query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("reportID", id.String()).Msg("Error executing delete report query")
		return fmt.Errorf("error deleting report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrReportNotFound
	}
	return nil
}
