package database

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"

	"github.com/deppfellow/guests-api/internal/config"
	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
)

// Migrations are embedded per dialect and carried inside the binary.
//
//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// versionTable stores the applied schema version for both dialects.
const versionTable = "schema_version"

// migrationSplit separates the up and down halves of a migration file,
// using the same marker as tern.
var migrationSplit = []byte("---- create above / drop below ----")

var migrationName = regexp.MustCompile(`^(\d+)_[^.]+\.sql$`)

// migration is one numbered file from the embedded tree.
type migration struct {
	Version int
	Name    string
	Up      string
}

// loadMigrations reads the numbered migrations under dir in version order.
//
// Versions must start at 1 and have no gaps.
func loadMigrations(fsys fs.FS, dir string) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory %s: %w", dir, err)
	}

	var loaded []migration
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		matches := migrationName.FindStringSubmatch(entry.Name())
		if matches == nil {
			continue
		}

		version, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, fmt.Errorf("parsing migration version %s: %w", entry.Name(), err)
		}

		body, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		up, _, _ := bytes.Cut(body, migrationSplit)

		loaded = append(loaded, migration{
			Version: version,
			Name:    entry.Name(),
			Up:      string(bytes.TrimSpace(up)),
		})
	}

	sort.Slice(loaded, func(i, j int) bool { return loaded[i].Version < loaded[j].Version })

	for i, m := range loaded {
		if m.Version != i+1 {
			return nil, fmt.Errorf("missing migration %d, found %s", i+1, m.Name)
		}
	}

	return loaded, nil
}

// Migrate brings the schema up to the latest embedded version.
//
// It is safe to run on every start: already applied versions are skipped.
func (db *Database) Migrate(ctx context.Context) error {
	switch db.Driver {
	case config.DriverPostgres:
		return db.migratePostgres(ctx)
	default:
		return db.migrateSQLite(ctx)
	}
}

// migrateSQLite applies pending migrations in one transaction on the
// already open handle, so ":memory:" databases get their schema too.
func (db *Database) migrateSQLite(ctx context.Context) error {
	loaded, err := loadMigrations(migrations, "migrations/sqlite")
	if err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	tx, err := db.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting migration transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+versionTable+` (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("creating %s table: %w", versionTable, err)
	}

	var from int
	if err = tx.GetContext(ctx, &from, `SELECT COALESCE(MAX(version), 0) FROM `+versionTable); err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if from > len(loaded) {
		return fmt.Errorf("database schema version %d is newer than the %d known migrations", from, len(loaded))
	}

	for _, m := range loaded[from:] {
		if _, err = tx.ExecContext(ctx, m.Up); err != nil {
			return fmt.Errorf("applying migration %s: %w", m.Name, err)
		}
	}

	if from < len(loaded) {
		if _, err = tx.ExecContext(ctx, `DELETE FROM `+versionTable); err != nil {
			return fmt.Errorf("resetting %s: %w", versionTable, err)
		}
		if _, err = tx.ExecContext(ctx, `INSERT INTO `+versionTable+` (version) VALUES (?)`, len(loaded)); err != nil {
			return fmt.Errorf("recording schema version: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing migrations: %w", err)
	}

	db.logMigration(from, len(loaded))
	return nil
}

// migratePostgres runs the postgres migrations through jackc/tern on a
// dedicated connection.
func (db *Database) migratePostgres(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, postgresDSN(db.cfg.Database))
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, versionTable)
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations/postgres")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return err
	}

	db.logMigration(int(from), len(m.Migrations))
	return nil
}

func (db *Database) logMigration(from, to int) {
	if from == to {
		db.log.Info().Msgf("database schema up to date, version %d", to)
	} else {
		db.log.Info().Msgf("migrated database schema, from %d to %d", from, to)
	}
}
