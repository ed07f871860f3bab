package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Migrator applies numbered SQL files once each, tracking them in schema_migrations.
type Migrator struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(db *pgxpool.Pool, logger zerolog.Logger) *Migrator {
	return &Migrator{db: db, logger: logger}
}

// ensureMigrationTableExists creates the schema_migrations tracking table
func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	_, err := m.db.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`)
	if err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

// isMigrationApplied checks whether a version was already recorded
func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	err := m.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

// MigrationVersion extracts the version prefix of a migration file name ("001_init.sql" => "001").
func MigrationVersion(filename string) string {
	return strings.SplitN(filename, "_", 2)[0]
}

// PendingFiles lists the .sql files at the root of fsys in lexical order.
func PendingFiles(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// MigrateFromDirectory applies every pending migration found in dirPath.
func (m *Migrator) MigrateFromDirectory(dirPath string) error {
	return m.MigrateFromFS(context.Background(), os.DirFS(dirPath))
}

// MigrateFromFS applies every pending migration in fsys, each in its own transaction.
func (m *Migrator) MigrateFromFS(ctx context.Context, fsys fs.FS) error {
	// Make sure the tracking table exists
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	// Collect the migration files in order
	files, err := PendingFiles(fsys)
	if err != nil {
		return err
	}

	for _, name := range files {
		if err := m.apply(ctx, fsys, name); err != nil {
			return err
		}
	}
	return nil
}

// apply runs one migration file unless its version is already recorded
func (m *Migrator) apply(ctx context.Context, fsys fs.FS, name string) error {
	version := MigrationVersion(name)

	// Skip migrations that already ran
	applied, err := m.isMigrationApplied(ctx, version)
	if err != nil {
		return err
	}
	if applied {
		m.logger.Debug().Str("file", name).Msg("Migration already applied, skipping")
		return nil
	}

	// Read the migration file
	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read migration file %s: %w", name, err)
	}

	// The script and its bookkeeping row commit together
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Execute the migration
	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("migration %s failed: %w", name, err)
	}
	// Record the migration
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)`, version, time.Now()); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", name, err)
	}

	m.logger.Info().Str("file", name).Str("version", version).Msg("Migration applied")
	return nil
}
