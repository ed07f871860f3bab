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

const (
	constraintUsersPhone = "uk_users_phone"
	constraintUsersEmail = "uk_users_email"
)

var userColumns = []string{
	"u.id", "u.full_name", "COALESCE(u.gender, '')", "u.email", "u.phone", "COALESCE(u.address, '')",
	"u.password_hash", "u.enabled", "u.active", "u.created_at", "u.updated_at",
	"COALESCE(array_agg(ur.role) FILTER (WHERE ur.role IS NOT NULL), '{}')",
}

// UserRepository handles user and role database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: pool,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// selectUsers selects users with their roles aggregated into one array column
func (r *UserRepository) selectUsers() squirrel.SelectBuilder {
	return r.sb.Select(userColumns...).
		From("users u").
		LeftJoin("user_roles ur ON ur.user_id = u.id").
		GroupBy("u.id")
}

// scanUser reads one row of selectUsers
func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	var roles []string
	if err := row.Scan(&u.ID, &u.FullName, &u.Gender, &u.Email, &u.Phone, &u.Address,
		&u.Password, &u.Enabled, &u.Active, &u.CreatedAt, &u.UpdatedAt, &roles); err != nil {
		return nil, err
	}
	u.Roles = make([]models.RoleType, 0, len(roles))
	for _, role := range roles {
		u.Roles = append(u.Roles, models.RoleType(role))
	}
	return u, nil
}

// queryUsers runs a select built on selectUsers and scans every row
func (r *UserRepository) queryUsers(ctx context.Context, q squirrel.SelectBuilder) ([]*models.User, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	// Execute query
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing user query")
		return nil, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	// Scan rows
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// getOne returns the single user matching where, or ErrUserNotFound
func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := r.selectUsers().Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	u, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		// No row means the user does not exist
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error scanning user row")
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return u, nil
}

// Create inserts the user and its roles in one transaction
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("users").
			Columns("full_name", "gender", "email", "phone", "address", "password_hash", "enabled", "active").
			Values(u.FullName, u.Gender, u.Email, u.Phone, u.Address, u.Password, u.Enabled, u.Active).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create user query: %w", err)
		}

		// Insert the user; unique violations become conflicts
		if err := tx.QueryRow(ctx, sql, args...).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			switch {
			case dberrors.IsDuplicateConstraintError(err, constraintUsersPhone):
				return apperrors.ErrPhoneAlreadyExists
			case dberrors.IsDuplicateConstraintError(err, constraintUsersEmail):
				return apperrors.ErrEmailAlreadyExists
			}
			logger.Error().Err(err).Str("phone", u.Phone).Msg("Error executing create user query")
			return fmt.Errorf("error creating user: %w", err)
		}

		// Roles live in their own table
		return insertRoles(ctx, tx, r.sb, u.ID, u.Roles)
	})
}

// insertRoles adds the role rows of a user, ignoring ones already present
func insertRoles(ctx context.Context, q db.DBTX, sb squirrel.StatementBuilderType, userID uuid.UUID, roles []models.RoleType) error {
	if len(roles) == 0 {
		return nil
	}
	insert := sb.Insert("user_roles").Columns("user_id", "role")
	for _, role := range roles {
		insert = insert.Values(userID, string(role))
	}
	sql, args, err := insert.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert roles query: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error inserting user roles: %w", err)
	}
	return nil
}

// GetByID retrieves a user with roles
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"u.id": id})
}

// GetByPhone retrieves a user by phone number
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"u.phone": phone})
}

// GetByIDs retrieves every user whose id is listed; unknown ids are skipped
func (r *UserRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.User, error) {
	if len(ids) == 0 {
		return []*models.User{}, nil
	}
	return r.queryUsers(ctx, r.selectUsers().Where(squirrel.Eq{"u.id": ids}).OrderBy("u.full_name ASC"))
}

// List retrieves all users, optionally only those holding role
func (r *UserRepository) List(ctx context.Context, role *models.RoleType) ([]*models.User, error) {
	q := r.selectUsers().OrderBy("u.full_name ASC")
	if role != nil {
		q = q.Where("EXISTS (SELECT 1 FROM user_roles f WHERE f.user_id = u.id AND f.role = ?)", string(*role))
	}
	return r.queryUsers(ctx, q)
}

// ExistsByPhone checks if the phone number is taken
func (r *UserRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"phone": phone})
}

// ExistsByEmail checks if the email is taken
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"email": email})
}

// exists reports whether a users row matches where
func (r *UserRepository) exists(ctx context.Context, where squirrel.Sqlizer) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("users").
		Where(where).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build user exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Msg("Error checking user existence")
		return false, fmt.Errorf("error checking user existence: %w", err)
	}
	return exists, nil
}
