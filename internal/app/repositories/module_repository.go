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

const constraintModulesName = "uk_modules_name"

var moduleColumns = []string{"id", "name", "COALESCE(category, '')", "active", "index_order", "created_at", "updated_at"}

// ModuleRepository handles module database operations
type ModuleRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewModuleRepository creates a new ModuleRepository
func NewModuleRepository(pool *pgxpool.Pool) *ModuleRepository {
	return &ModuleRepository{
		db: pool,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanModule(row pgx.Row) (*models.Module, error) {
	m := &models.Module{}
	if err := row.Scan(&m.ID, &m.Name, &m.Category, &m.Active, &m.IndexOrder, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *ModuleRepository) insert(ctx context.Context, q db.DBTX, m *models.Module) error {
	sql, args, err := r.sb.Insert("modules").
		Columns("name", "category", "active", "index_order").
		Values(m.Name, m.Category, m.Active, m.IndexOrder).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create module query: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, constraintModulesName) {
			return fmt.Errorf("%w: %s", apperrors.ErrModuleNameExists, m.Name)
		}
		logger.Error().Err(err).Str("name", m.Name).Msg("Error executing create module query")
		return fmt.Errorf("error creating module: %w", err)
	}
	return nil
}

// Create inserts a module
func (r *ModuleRepository) Create(ctx context.Context, m *models.Module) error {
	return r.insert(ctx, r.db, m)
}

// CreateBulk inserts every module or none
func (r *ModuleRepository) CreateBulk(ctx context.Context, modules []*models.Module) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		for _, m := range modules {
			if err := r.insert(ctx, tx, m); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ModuleRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Module, error) {
	sql, args, err := r.sb.Select(moduleColumns...).From("modules").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get module query: %w", err)
	}

	m, err := scanModule(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrModuleNotFound
		}
		logger.Error().Err(err).Msg("Error scanning module row")
		return nil, fmt.Errorf("error getting module: %w", err)
	}
	return m, nil
}

// GetByID retrieves a module by ID
func (r *ModuleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Module, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByName retrieves a module by its unique name
func (r *ModuleRepository) GetByName(ctx context.Context, name string) (*models.Module, error) {
	return r.getOne(ctx, squirrel.Eq{"name": name})
}

func (r *ModuleRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*models.Module, error) {
	q := r.sb.Select(moduleColumns...).From("modules").OrderBy("index_order ASC", "name ASC")
	if where != nil {
		q = q.Where(where)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list modules query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list modules query")
		return nil, fmt.Errorf("error querying modules: %w", err)
	}
	defer rows.Close()

	modules := []*models.Module{}
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning module row: %w", err)
		}
		modules = append(modules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating module rows: %w", err)
	}
	return modules, nil
}

// GetByIDs retrieves the listed modules ordered by index
func (r *ModuleRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Module, error) {
	if len(ids) == 0 {
		return []*models.Module{}, nil
	}
	return r.list(ctx, squirrel.Eq{"id": ids})
}

// ListActive retrieves active modules ordered by index
func (r *ModuleRepository) ListActive(ctx context.Context) ([]*models.Module, error) {
	return r.list(ctx, squirrel.Eq{"active": true})
}

// ListAll retrieves every module ordered by index
func (r *ModuleRepository) ListAll(ctx context.Context) ([]*models.Module, error) {
	return r.list(ctx, nil)
}

// Update saves name, category, active flag and index
func (r *ModuleRepository) Update(ctx context.Context, m *models.Module) error {
	sql, args, err := r.sb.Update("modules").
		SetMap(map[string]interface{}{
			"name":        m.Name,
			"category":    m.Category,
			"active":      m.Active,
			"index_order": m.IndexOrder,
			"updated_at":  squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": m.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update module query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&m.UpdatedAt); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return apperrors.ErrModuleNotFound
		case dberrors.IsDuplicateConstraintError(err, constraintModulesName):
			return fmt.Errorf("%w: %s", apperrors.ErrModuleNameExists, m.Name)
		}
		logger.Error().Err(err).Str("moduleID", m.ID.String()).Msg("Error executing update module query")
		return fmt.Errorf("error updating module: %w", err)
	}
	return nil
}

// Delete removes a module. Its reports and enrollments go with it.
func (r *ModuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := r.sb.Delete("modules").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete module query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("moduleID", id.String()).Msg("Error executing delete module query")
		return fmt.Errorf("error deleting module: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrModuleNotFound
	}
	return nil
}
