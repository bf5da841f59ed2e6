package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"github.com/kahvecikaan/shopping-list/internal/domain"
	"github.com/pressly/goose/v3"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

//go:embed migrations
var migrationsFS embed.FS

// Migration is one versioned schema change, read from
// migrations/<dialect>/<version>_<name>.sql.
type Migration struct {
	Version int
	Name    string
}

func (d Dialect) gooseDialect() goose.Dialect {
	if d == SQLite {
		return goose.DialectSQLite3
	}
	return goose.DialectPostgres
}

// NewMigrator returns a goose provider over the embedded migrations for d.
func NewMigrator(db *sql.DB, d Dialect) (*goose.Provider, error) {
	fsys, err := fs.Sub(migrationsFS, path.Join("migrations", string(d)))
	if err != nil {
		return nil, fmt.Errorf("read migrations for %s: %w", d, err)
	}

	p, err := goose.NewProvider(d.gooseDialect(), db, fsys)
	if err != nil {
		return nil, fmt.Errorf("load migrations for %s: %w", d, err)
	}
	return p, nil
}

// Migrations returns the embedded migrations for the dialect in version order.
func Migrations(db *sql.DB, d Dialect) ([]Migration, error) {
	p, err := NewMigrator(db, d)
	if err != nil {
		return nil, err
	}

	var migrations []Migration
	for _, s := range p.ListSources() {
		migrations = append(migrations, Migration{Version: int(s.Version), Name: migrationName(s.Path)})
	}
	return migrations, nil
}

// Migrate applies every pending migration and returns the ones it applied.
// Failing to reach the database is reported as domain.ErrTransient.
func Migrate(ctx context.Context, db *sql.DB, d Dialect) ([]Migration, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransient, err)
	}

	p, err := NewMigrator(db, d)
	if err != nil {
		return nil, err
	}

	results, err := p.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	applied := make([]Migration, 0, len(results))
	for _, r := range results {
		applied = append(applied, Migration{Version: int(r.Source.Version), Name: migrationName(r.Source.Path)})
	}
	return applied, nil
}

// migrationName strips the version prefix and extension from a file name.
func migrationName(p string) string {
	base := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
	if _, name, ok := strings.Cut(base, "_"); ok {
		return name
	}
	return base
}
