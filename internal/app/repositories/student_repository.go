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
	"github.com/uruhongore/academy/internal/db"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
	"github.com/uruhongore/academy/internal/pkg/dberrors"
	"github.com/uruhongore/academy/internal/pkg/logger"
)

const constraintStudentsCode = "uk_students_code"

var studentColumns = []string{
	"s.id", "s.student_code", "s.first_name", "s.last_name", "s.date_of_birth", "s.gender",
	"s.class_level", "s.academic_year", "s.status", "s.profile_photo", "s.created_at", "s.updated_at",
	"ARRAY(SELECT sp.parent_id FROM student_parents sp WHERE sp.student_id = s.id)",
	"ARRAY(SELECT sm.module_id FROM student_modules sm WHERE sm.student_id = s.id)",
}

// StudentRepository handles student database operations, including parent and module links
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: pool,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	s := &models.Student{}
	if err := row.Scan(&s.ID, &s.StudentCode, &s.FirstName, &s.LastName, &s.DateOfBirth, &s.Gender,
		&s.ClassLevel, &s.AcademicYear, &s.Status, &s.ProfilePhoto, &s.CreatedAt, &s.UpdatedAt,
		&s.ParentIDs, &s.ModuleIDs); err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts the student and its parent and module links in a single transaction
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("students").
			Columns("student_code", "first_name", "last_name", "date_of_birth", "gender",
				"class_level", "academic_year", "status", "profile_photo").
			Values(s.StudentCode, s.FirstName, s.LastName, s.DateOfBirth, string(s.Gender),
				string(s.ClassLevel), s.AcademicYear, string(s.Status), s.ProfilePhoto).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create student query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			if dberrors.IsDuplicateConstraintError(err, constraintStudentsCode) {
				return apperrors.NewConflictError("student code already exists: " + s.StudentCode)
			}
			logger.Error().Err(err).Str("studentCode", s.StudentCode).Msg("Error executing create student query")
			return fmt.Errorf("error creating student: %w", err)
		}

		if err := r.link(ctx, tx, "student_parents", "parent_id", s.ID, s.ParentIDs); err != nil {
			return err
		}
		return r.link(ctx, tx, "student_modules", "module_id", s.ID, s.ModuleIDs)
	})
}

func (r *StudentRepository) link(ctx context.Context, q db.DBTX, table, column string, studentID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	insert := r.sb.Insert(table).Columns("student_id", column)
	for _, id := range ids {
		insert = insert.Values(studentID, id)
	}
	sql, args, err := insert.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s insert: %w", table, err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewResourceNotFoundError(fmt.Sprintf("referenced %s does not exist", column))
		}
		logger.Error().Err(err).Str("table", table).Str("studentID", studentID.String()).Msg("Error linking student")
		return fmt.Errorf("error inserting into %s: %w", table, err)
	}
	return nil
}

// GetByID retrieves a student with parent and module ids
func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students s").
		Where(squirrel.Eq{"s.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	s, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Str("studentID", id.String()).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student: %w", err)
	}
	return s, nil
}

func (r *StudentRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*models.Student, error) {
	q := r.sb.Select(studentColumns...).
		From("students s").
		OrderBy("s.last_name ASC", "s.first_name ASC")
	if where != nil {
		q = q.Where(where)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}
	return students, nil
}

// List retrieves all students
func (r *StudentRepository) List(ctx context.Context) ([]*models.Student, error) {
	return r.list(ctx, nil)
}

// ListByParent retrieves the children linked to parentID
func (r *StudentRepository) ListByParent(ctx context.Context, parentID uuid.UUID) ([]*models.Student, error) {
	return r.list(ctx, squirrel.Expr(
		"EXISTS (SELECT 1 FROM student_parents p WHERE p.student_id = s.id AND p.parent_id = ?)", parentID))
}

// ListByClassLevel retrieves the students of one class level
func (r *StudentRepository) ListByClassLevel(ctx context.Context, level models.ClassLevel) ([]*models.Student, error) {
	return r.list(ctx, squirrel.Eq{"s.class_level": string(level)})
}

// Count returns the number of students
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("students").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count students query: %w", err)
	}
	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}

// ExistsByCode checks if a student code is taken
func (r *StudentRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("students").
		Where(squirrel.Eq{"student_code": code}).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build student code exists query: %w", err)
	}
	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking student code: %w", err)
	}
	return exists, nil
}

// AddParent links a parent to a student; linking twice is a no-op
func (r *StudentRepository) AddParent(ctx context.Context, studentID, parentID uuid.UUID) error {
	return r.link(ctx, r.db, "student_parents", "parent_id", studentID, []uuid.UUID{parentID})
}

// AddModule enrolls a student in a module; enrolling twice is a no-op
func (r *StudentRepository) AddModule(ctx context.Context, studentID, moduleID uuid.UUID) error {
	return r.link(ctx, r.db, "student_modules", "module_id", studentID, []uuid.UUID{moduleID})
}

// UpdateProfilePhoto stores or clears (nil) the photo URL
func (r *StudentRepository) UpdateProfilePhoto(ctx context.Context, studentID uuid.UUID, url *string) error {
	sql, args, err := r.sb.Update("students").
		Set("profile_photo", url).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update photo query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("studentID", studentID.String()).Msg("Error updating profile photo")
		return fmt.Errorf("error updating profile photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}
