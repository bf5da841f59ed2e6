// Package bootstrap resolves the database connection and brings the schema
// up to date before the API starts serving requests.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/shopping-list/internal/database"
)

// Config controls a bootstrap run.
type Config struct {
	Resolvers []Resolver
	Retry     RetryPolicy
}

// Store is the migrated database handed to the repositories.
type Store struct {
	DB      *sql.DB
	Dialect database.Dialect
	Source  string
}

// Run resolves the connection string and applies pending migrations,
// retrying under cfg.Retry. A missing configuration fails immediately.
func Run(ctx context.Context, cfg Config, logger hclog.Logger) (*Store, error) {
	dsn, source, err := ResolveConnectionString(cfg.Resolvers)
	if err != nil {
		return nil, err
	}
	logger.Info("Resolved database connection", "source", source)

	store := &Store{Source: source}
	err = cfg.Retry.Do(ctx, logger, "migrate", func(ctx context.Context) error {
		db, dialect, err := database.Open(dsn)
		if err != nil {
			return err
		}

		applied, err := database.Migrate(ctx, db, dialect)
		if err != nil {
			db.Close()
			return err
		}

		for _, m := range applied {
			logger.Info("Applied migration", "version", m.Version, "name", m.Name)
		}
		store.DB = db
		store.Dialect = dialect
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	logger.Info("Database ready", "dialect", store.Dialect)
	return store, nil
}
