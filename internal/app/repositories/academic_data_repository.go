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

const constraintAcademicDataSlot = "uk_trimester_year_period"

var academicDataColumns = []string{"id", "trimester", "academic_year", "period", "published", "created_at", "updated_at"}

// periodOrder sorts PERIOD_1..3 before FINAL_SEMESTER
func periodOrder(column string) string {
	return "CASE " + column + " WHEN 'PERIOD_1' THEN 1 WHEN 'PERIOD_2' THEN 2 WHEN 'PERIOD_3' THEN 3 ELSE 4 END"
}

// AcademicDataRepository handles academic period database operations
type AcademicDataRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAcademicDataRepository creates a new AcademicDataRepository
func NewAcademicDataRepository(pool *pgxpool.Pool) *AcademicDataRepository {
	return &AcademicDataRepository{
		db: pool,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanAcademicData(row pgx.Row) (*models.AcademicData, error) {
	a := &models.AcademicData{}
	if err := row.Scan(&a.ID, &a.Trimester, &a.AcademicYear, &a.Period, &a.Published, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a row; an existing triple yields ErrAcademicDataExists
func (r *AcademicDataRepository) Create(ctx context.Context, a *models.AcademicData) error {
	sql, args, err := r.sb.Insert("academic_data").
		Columns("trimester", "academic_year", "period", "published").
		Values(string(a.Trimester), a.AcademicYear, string(a.Period), a.Published).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create academic data query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, constraintAcademicDataSlot) {
			return apperrors.ErrAcademicDataExists
		}
		logger.Error().Err(err).Msg("Error executing create academic data query")
		return fmt.Errorf("error creating academic data: %w", err)
	}
	return nil
}

func (r *AcademicDataRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.AcademicData, error) {
	sql, args, err := r.sb.Select(academicDataColumns...).From("academic_data").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get academic data query: %w", err)
	}

	a, err := scanAcademicData(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAcademicDataNotFound
		}
		logger.Error().Err(err).Msg("Error scanning academic data row")
		return nil, fmt.Errorf("error getting academic data: %w", err)
	}
	return a, nil
}

// GetByID retrieves an academic period by ID
func (r *AcademicDataRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AcademicData, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// FindBySlot retrieves the row for a (trimester, year, period) triple
func (r *AcademicDataRepository) FindBySlot(ctx context.Context, t models.Trimester, year int, p models.Period) (*models.AcademicData, error) {
	return r.getOne(ctx, squirrel.Eq{"trimester": string(t), "academic_year": year, "period": string(p)})
}

func (r *AcademicDataRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.AcademicData, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list academic data query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list academic data query")
		return nil, fmt.Errorf("error querying academic data: %w", err)
	}
	defer rows.Close()

	items := []*models.AcademicData{}
	for rows.Next() {
		a, err := scanAcademicData(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning academic data row: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating academic data rows: %w", err)
	}
	return items, nil
}

// List retrieves every academic period, newest first
func (r *AcademicDataRepository) List(ctx context.Context) ([]*models.AcademicData, error) {
	return r.list(ctx, r.sb.Select(academicDataColumns...).From("academic_data").OrderBy("created_at DESC"))
}

// ListPublished retrieves published periods ordered by year desc, trimester and period
func (r *AcademicDataRepository) ListPublished(ctx context.Context) ([]*models.AcademicData, error) {
	return r.list(ctx, r.sb.Select(academicDataColumns...).
		From("academic_data").
		Where(squirrel.Eq{"published": true}).
		OrderBy("academic_year DESC", "trimester ASC", periodOrder("period")))
}

// Update saves the triple and the published flag
func (r *AcademicDataRepository) Update(ctx context.Context, a *models.AcademicData) error {
	sql, args, err := r.sb.Update("academic_data").
		SetMap(map[string]interface{}{
			"trimester":     string(a.Trimester),
			"academic_year": a.AcademicYear,
			"period":        string(a.Period),
			"published":     a.Published,
			"updated_at":    squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": a.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update academic data query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.UpdatedAt); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return apperrors.ErrAcademicDataNotFound
		case dberrors.IsDuplicateConstraintError(err, constraintAcademicDataSlot):
			return apperrors.ErrAcademicDataExists
		}
		logger.Error().Err(err).Str("academicDataID", a.ID.String()).Msg("Error executing update academic data query")
		return fmt.Errorf("error updating academic data: %w", err)
	}
	return nil
}

// Delete removes an academic period; its reports are removed by cascade
func (r *AcademicDataRepository) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := r.sb.Delete("academic_data").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete academic data query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("academicDataID", id.String()).Msg("Error executing delete academic data query")
		return fmt.Errorf("error deleting academic data: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAcademicDataNotFound
	}
	return nil
}
